package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/activation"
	"github.com/basiskit/basiskit/dataset"
	"github.com/basiskit/basiskit/neural"
	"github.com/basiskit/basiskit/pkg/errors"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Build a randomly initialised network and run forward inference over a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Data.Path == "" {
			return errors.NewValidationError("data", "a CSV file is required", cfg.Data.Path)
		}
		act, err := activation.Lookup(cfg.Network.Activation)
		if err != nil {
			return err
		}
		set, err := cfg.BasisSet()
		if err != nil {
			return err
		}

		opts := cfg.DatasetOptions()
		opts.Split = 100
		data, err := dataset.LoadBinaryCSV(cfg.Data.Path, opts)
		if err != nil {
			return err
		}
		X, y := data.XTrain, data.YTrain

		net, err := neural.NewNetwork(cfg.Network.Depth, cfg.Network.Widths,
			neural.WithActivation(act),
			neural.WithBasis(set),
			neural.WithRandomState(cfg.Network.Seed),
		)
		if err != nil {
			return err
		}
		_, nFeatures := X.Dims()
		if err := net.Initialize(nFeatures); err != nil {
			return err
		}
		pred, err := net.PredictMany(X)
		if err != nil {
			return err
		}
		return printPredictions(cmd, y, pred)
	},
}

func printPredictions(cmd *cobra.Command, y mat.Matrix, pred *mat.VecDense) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header([]string{"row", "label", "output"})
	for i := 0; i < pred.Len(); i++ {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(y.At(i, 0), 'f', 0, 64),
			strconv.FormatFloat(pred.AtVec(i), 'f', 4, 64),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func init() {
	flags := networkCmd.Flags()
	flags.Int("depth", 1, "number of hidden layers")
	flags.IntSlice("widths", []int{1, 1, 1}, "layer widths, input and output layers included")
	flags.String("activation", activation.Sigmoid.Name, "node activation")
	flags.Int64("seed", -1, "random seed for the initial weights, negative for a random one")
	bindFlags(v, flags, map[string]string{
		"depth":      "network.depth",
		"widths":     "network.widths",
		"activation": "network.activation",
		"seed":       "network.seed",
	})
}
