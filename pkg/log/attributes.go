package log

// Model and operation context.
const (
	// ModelNameKey identifies the model type, e.g. "LogRegClassifier", "Network".
	ModelNameKey = "model.name"
	// OperationKey is the operation being performed, see the Operation* values.
	OperationKey = "ml.operation"
	// ComponentKey is the package or subsystem emitting the entry.
	ComponentKey = "ml.component"
	// PhaseKey is the lifecycle phase, see the Phase* values.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	// PathKey is a file read or written.
	PathKey = "data.path"
	// WeightsKey is the length of a weight vector.
	WeightsKey = "data.weights"
	// BasisKey lists the basis-function names of a model.
	BasisKey = "data.basis"
	// LayersKey is the number of layers of a network.
	LayersKey = "data.layers"
)

// Training and evaluation metrics.
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	AUCKey        = "metrics.auc"
	LossKey       = "metrics.loss"
	GradNormKey   = "metrics.grad_norm"
	IterationKey  = "training.iteration"
	ConvergedKey  = "training.converged"
	ThresholdKey  = "preds.threshold"
	PredsKey      = "preds.count"
)

// Errors.
const (
	ErrorCodeKey  = "error.code"
	ErrorTypeKey  = "error.type"
	StacktraceKey = "error.stacktrace"
	SuggestionKey = "error.suggestion"
)

// Hyperparameters.
const (
	LearningRateKey = "hyperparams.learning_rate"
	MaxIterKey      = "hyperparams.max_iter"
	ToleranceKey    = "hyperparams.tol"
	RandomSeedKey   = "config.random_seed"
)

// Standard values.
const (
	OperationTrain   = "train"
	OperationPredict = "predict"
	OperationReport  = "report"
	OperationLoad    = "load"
	OperationPlot    = "plot"

	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhaseEvaluation    = "evaluation"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorUndefinedMetric   = "UNDEFINED_METRIC"
)
