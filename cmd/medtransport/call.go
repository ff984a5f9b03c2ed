package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkordes/medtransport/internal/contract"
)

func callCmd() *cobra.Command {
	var readOnly bool
	cmd := &cobra.Command{
		Use:   "call <contract> <method> [args...]",
		Short: "Invoke one contract method against the configured store",
		Long: "Each argument is parsed as JSON (numbers, booleans, arrays); anything that is\n" +
			"not valid JSON is passed as a string. The result is printed as JSON.\n\n" +
			"Contracts: " + strings.Join([]string{
			contract.PatientRegistration, contract.DriverVerification,
			contract.TripCoordination, contract.MedicalEquipment,
		}, ", "),
		Example: "  medtransport call driver-verification rate-driver 1 5\n" +
			"  medtransport call trip-coordination schedule-trip 1 2 '\"123 Main St\"' '\"City Hospital\"' 1200 '[1,2]' '\"\"'",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, argv []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			var res contract.Result
			if readOnly {
				res = a.ledger.CallReadOnly(cmd.Context(), argv[0], argv[1], parseCallArgs(argv[2:])...)
			} else {
				res = a.ledger.Call(cmd.Context(), argv[0], argv[1], parseCallArgs(argv[2:])...)
			}
			if err := printResult(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("%s.%s: %s", argv[0], argv[1], res.Error)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "reject methods that write")
	return cmd
}

// parseCallArgs decodes each argument as JSON, keeping numbers as
// json.Number. Non-JSON text is passed through as a string.
func parseCallArgs(raw []string) []any {
	args := make([]any, len(raw))
	for i, s := range raw {
		dec := json.NewDecoder(strings.NewReader(s))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil || dec.More() {
			args[i] = s
			continue
		}
		args[i] = v
	}
	return args
}

func printResult(w io.Writer, res contract.Result) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
