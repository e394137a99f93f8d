// Command ckdctl inspects the CART artifact from the terminal: it encodes a
// patient record, predicts with the loaded tree and dumps the tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ckdcart/config"
	"ckdcart/i18n"
	"ckdcart/ml"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	modelPath  string
	modelType  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "ckdctl",
		Short:         "Inspect the chronic kidney disease CART model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: config.yaml in . or ..)")
	root.PersistentFlags().StringVar(&opts.modelPath, "model", "", "model artifact, overrides the config")
	root.PersistentFlags().StringVar(&opts.modelType, "model-type", "", "model type, overrides the config")

	root.AddCommand(newPredictCmd(opts), newFeaturesCmd(), newTreeCmd(opts))
	return root
}

func (o *rootOptions) loadModel() (*ml.DecisionTree, error) {
	path := o.configPath
	if path == "" {
		path = config.Find("config.yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.modelPath != "" {
		cfg.ML.ModelPath = o.modelPath
	}
	if o.modelType != "" {
		cfg.ML.ModelType = o.modelType
	}
	model, err := ml.LoadModel(cfg.ML.ModelType, cfg.ML.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return model, nil
}

// bindPatientFlags registers one flag per intake field, defaulting to the
// form defaults.
func bindPatientFlags(cmd *cobra.Command, form *ml.PatientForm) {
	f := cmd.Flags()
	f.IntVar(&form.Age, "age", form.Age, "age in years")
	f.IntVar(&form.BP, "bp", form.BP, "blood pressure (mmHg)")
	f.Float64Var(&form.SG, "sg", form.SG, "urine specific gravity")
	f.IntVar(&form.Al, "al", form.Al, "urine albumin")
	f.IntVar(&form.Su, "su", form.Su, "urine sugar")
	f.StringVar(&form.RBC, "rbc", form.RBC, "red blood cells (Normal|Abnormal)")
	f.StringVar(&form.PC, "pc", form.PC, "pus cells (Normal|Abnormal)")
	f.StringVar(&form.PCC, "pcc", form.PCC, "pus cell clumps (Present|Notpresent)")
	f.StringVar(&form.BA, "ba", form.BA, "bacteria (Present|Notpresent)")
	f.IntVar(&form.BGR, "bgr", form.BGR, "blood glucose random (mg/dL)")
	f.IntVar(&form.BU, "bu", form.BU, "blood urea (mg/dL)")
	f.Float64Var(&form.SC, "sc", form.SC, "serum creatinine (mg/dL)")
	f.Float64Var(&form.Sod, "sod", form.Sod, "sodium (mEq/L)")
	f.Float64Var(&form.Pot, "pot", form.Pot, "potassium (mEq/L)")
	f.Float64Var(&form.Hemo, "hemo", form.Hemo, "hemoglobin (g/dL)")
	f.IntVar(&form.PCV, "pcv", form.PCV, "packed cell volume (%)")
	f.IntVar(&form.WBCC, "wbcc", form.WBCC, "white blood cell count (cells/mm3)")
	f.Float64Var(&form.RBCC, "rbcc", form.RBCC, "red blood cell count (millions/mm3)")
	f.StringVar(&form.HTN, "htn", form.HTN, "hypertension (Yes|No)")
	f.StringVar(&form.DM, "dm", form.DM, "diabetes mellitus (Yes|No)")
	f.StringVar(&form.CAD, "cad", form.CAD, "coronary artery disease (Yes|No)")
	f.StringVar(&form.Appet, "appet", form.Appet, "appetite (Good|Poor)")
	f.StringVar(&form.PE, "pe", form.PE, "pedal edema (Yes|No)")
	f.StringVar(&form.ANE, "ane", form.ANE, "anemia (Yes|No)")
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	form := ml.DefaultPatientForm()
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the diagnosis for one patient record",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := opts.loadModel()
			if err != nil {
				return err
			}
			vector, err := ml.Encode(form.Coerce())
			if err != nil {
				return err
			}
			diagnosis, err := ml.Diagnose(model, vector)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", diagnosis.Label, diagnosis.Text)
			return nil
		},
	}
	bindPatientFlags(cmd, &form)
	return cmd
}

func newFeaturesCmd() *cobra.Command {
	form := ml.DefaultPatientForm()
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Print the encoded feature vector for one patient record",
		RunE: func(cmd *cobra.Command, args []string) error {
			vector, err := ml.Encode(form.Coerce())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, name := range ml.FeatureNames {
				fmt.Fprintf(out, "%-6s %v\n", name, vector[i])
			}
			return nil
		},
	}
	bindPatientFlags(cmd, &form)
	return cmd
}

func newTreeCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		lang   string
		filled bool
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Dump the decision tree as text or SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := opts.loadModel()
			if err != nil {
				return err
			}
			switch format {
			case "text":
				return ml.ExportText(cmd.OutOrStdout(), model, i18n.Printer(lang))
			case "svg":
				return ml.RenderTree(cmd.OutOrStdout(), model, ml.RenderOptions{Filled: filled})
			default:
				return fmt.Errorf("unknown format %q (want text or svg)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or svg")
	cmd.Flags().StringVar(&lang, "lang", "en", "number format language for text output")
	cmd.Flags().BoolVar(&filled, "filled", true, "colour SVG nodes by majority class")
	return cmd
}
