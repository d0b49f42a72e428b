package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"phpayroll/internal/auth"
	"phpayroll/internal/domain/payroll"
	"phpayroll/internal/platform/tables"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "payrollctl",
		Short:        "Offline tools for the payroll engine",
		SilenceUsage: true,
	}
	root.AddCommand(newCalcCmd(), newTokenCmd(), newHashPasswordCmd())
	return root
}

func newCalcCmd() *cobra.Command {
	var (
		inputPath  string
		tablesPath string
		format     string
		outPath    string
		skipChecks bool
	)
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate a payroll run from a JSON file",
		Example: `  payrollctl calc --input run.json
  cat run.json | payrollctl calc --input - --format csv --out register.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			constants := payroll.DefaultConstants()
			if tablesPath != "" {
				loaded, err := tables.Load(tablesPath)
				if err != nil {
					return err
				}
				constants = loaded
			}

			data, err := readInput(cmd.InOrStdin(), inputPath)
			if err != nil {
				return err
			}
			var input payroll.RunInput
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("decode run: %w", err)
			}
			if !skipChecks {
				if err := payroll.ValidateRun(input); err != nil {
					return err
				}
			}
			result := payroll.CalculateRun(input, constants)

			var out []byte
			switch strings.ToLower(format) {
			case "json":
				out, err = json.MarshalIndent(result, "", "  ")
				out = append(out, '\n')
			case "csv":
				out, err = payroll.RegisterCSV(result)
			case "xlsx":
				if outPath == "" {
					return errors.New("--out is required for xlsx output")
				}
				out, err = payroll.RegisterXLSX(result)
			default:
				return fmt.Errorf("unknown format %q: want json, csv or xlsx", format)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outPath, out)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "run JSON file, or - for stdin")
	cmd.Flags().StringVar(&tablesPath, "tables", "", "YAML rate tables; built-in defaults when empty")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file; stdout when empty")
	cmd.Flags().BoolVar(&skipChecks, "no-validate", false, "calculate without the input validation pass")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		claims auth.Claims
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}
			if _, ok := auth.DefaultRolePermissions()[claims.RoleName]; !ok {
				return fmt.Errorf("unknown role %q", claims.RoleName)
			}
			token, err := auth.GenerateToken(secret, claims, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "HMAC secret; defaults to JWT_SECRET")
	cmd.Flags().StringVar(&claims.UserID, "user", "dev-user", "user id claim")
	cmd.Flags().StringVar(&claims.TenantID, "tenant", "dev-tenant", "tenant id claim")
	cmd.Flags().StringVar(&claims.RoleName, "role", auth.RolePayrollAdmin, "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	var verify string
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash of a password read from the argument or stdin",
		Long:  "Print a bcrypt hash of a password. With --verify, check the password against an existing hash instead.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}
			if verify != "" {
				if err := auth.CheckPassword(verify, password); err != nil {
					return errors.New("password does not match hash")
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
	cmd.Flags().StringVar(&verify, "verify", "", "bcrypt hash to check the password against")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
