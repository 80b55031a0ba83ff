package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NetworkArchetype/PLM/internal/plm"
	"github.com/NetworkArchetype/PLM/internal/profile"
)

// ComputeOptions holds flags for the compute command.
type ComputeOptions struct {
	*RootOptions
	Profile string

	Pi        string
	Lam       string
	Mu        string
	X         int64
	HashHex   string
	BlockSize int64
	CRCValue  int64
}

// ComputeResult holds the compute command output.
type ComputeResult struct {
	S         string `json:"s"`
	Precision uint32 `json:"precision"`
}

// inputFlagNames are the flags that feed the transform directly. They
// conflict with --profile, which supplies all seven inputs at once.
var inputFlagNames = []string{"pi", "lam", "mu", "x", "hash", "block", "crc"}

// NewComputeCommand creates the compute command.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComputeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a single transform value",
		Long: `Compute S = ((pi*Y)(lam*x))/(mu*C) once and print it.

Inputs come either from individual flags or from a CUE profile, whose
seed inputs are used as-is (pipeline and encoder settings are ignored).
All 80 digits of the result are printed; nothing is truncated.

Examples:
  plm compute --pi 3.14159 --lam 2.5 --mu 1.1 --x 7 --hash deadbeef --block 4096 --crc 157
  plm compute --profile ./profiles/golden_walk.cue
  plm compute --profile ./profiles/golden_walk.cue --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Profile, "profile", "", "CUE profile supplying the transform inputs")
	cmd.Flags().StringVar(&opts.Pi, "pi", "", "pi coefficient (decimal string)")
	cmd.Flags().StringVar(&opts.Lam, "lam", "", "lambda coefficient (decimal string)")
	cmd.Flags().StringVar(&opts.Mu, "mu", "", "mu coefficient (decimal string, non-zero)")
	cmd.Flags().Int64Var(&opts.X, "x", 1, "x multiplier")
	cmd.Flags().StringVar(&opts.HashHex, "hash", "", "hash value (hex string)")
	cmd.Flags().Int64Var(&opts.BlockSize, "block", 1, "block size component of the denominator")
	cmd.Flags().Int64Var(&opts.CRCValue, "crc", 0, "CRC component of the denominator")

	return cmd
}

func runCompute(opts *ComputeOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	in, err := computeInputs(opts, cmd)
	if err != nil {
		reportInputError(formatter, err)
		return err
	}

	s, err := plm.SecretValue(plm.NewContext(), in)
	if err != nil {
		if reportInputError(formatter, err) {
			return WrapExitError(ExitFailure, "invalid transform input", err)
		}
		return WrapExitError(ExitFailure, "transform failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(ComputeResult{S: s.String(), Precision: plm.Precision})
	}
	fmt.Fprintln(formatter.Writer, s.String())
	return nil
}

// reportInputError emits a coded error with field context if the chain
// carries a transform input error. Reports whether it did.
func reportInputError(formatter *OutputFormatter, err error) bool {
	var inputErr *plm.InputError
	if !errors.As(err, &inputErr) {
		return false
	}
	var details interface{}
	if inputErr.Field != "" {
		details = map[string]string{"field": inputErr.Field}
	}
	_ = formatter.Error(string(inputErr.Code), inputErr.Message, details)
	return true
}

// computeInputs resolves the transform inputs from --profile or from the
// individual input flags. The two sources are mutually exclusive.
func computeInputs(opts *ComputeOptions, cmd *cobra.Command) (plm.Inputs, error) {
	var changed []string
	for _, name := range inputFlagNames {
		if cmd.Flags().Changed(name) {
			changed = append(changed, name)
		}
	}

	if opts.Profile != "" {
		if len(changed) > 0 {
			return plm.Inputs{}, NewExitError(ExitCommandError,
				fmt.Sprintf("cannot combine --profile with input flags (%s)", strings.Join(changed, ", ")))
		}
		p, err := profile.Load(opts.Profile)
		if err != nil {
			return plm.Inputs{}, WrapExitError(ExitCommandError, "failed to load profile", err)
		}
		in, err := plm.NewInputs(p.Inputs.Pi, p.Inputs.Lam, p.Inputs.Mu,
			p.Inputs.X, p.Inputs.HashHex, p.Inputs.BlockSize, p.Inputs.CRCValue)
		if err != nil {
			return plm.Inputs{}, WrapExitError(ExitFailure, "invalid profile inputs", err)
		}
		return in, nil
	}

	var missing []string
	for _, name := range []string{"pi", "lam", "mu", "hash"} {
		if !cmd.Flags().Changed(name) {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return plm.Inputs{}, NewExitError(ExitCommandError,
			fmt.Sprintf("missing required flags: %s (or use --profile)", strings.Join(missing, ", ")))
	}

	in, err := plm.NewInputs(opts.Pi, opts.Lam, opts.Mu,
		opts.X, opts.HashHex, opts.BlockSize, opts.CRCValue)
	if err != nil {
		return plm.Inputs{}, WrapExitError(ExitFailure, "invalid transform input", err)
	}
	return in, nil
}
