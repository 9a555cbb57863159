package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"imprint"
	"imprint/imprintgen"
	"imprint/state"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:         "generate",
		Usage:        "write fake records for testing and benchmarking",
		ArgsUsage:    "OUTDIR",
		OnUsageError: usageErrorHandler,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Value: 1, Usage: "number of records to generate"},
			&cli.IntFlag{Name: "size", Value: 10, Usage: "text field scale factor"},
			&cli.BoolFlag{Name: "orders", Usage: "generate order records instead of products"},
			&cli.Uint64Flag{Name: "seed", Usage: "rng seed (0 picks one)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env := state.EnvFromContext(ctx)
			if cmd.NArg() != 1 {
				return errors.New("generate expects a single output directory argument")
			}
			outDir := cmd.Args().Get(0)
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return err
			}

			seed := cmd.Uint64("seed")
			if seed == 0 {
				seed = rand.Uint64()
			}
			rng := rand.New(rand.NewSource(int64(seed)))

			count := int(cmd.Int("count"))
			size := int(cmd.Int("size"))
			kind := "product"
			if cmd.Bool("orders") {
				kind = "order"
			}
			env.Log.Info("Generating records",
				zap.Int("count", count), zap.Int("size", size),
				zap.String("kind", kind), zap.Uint64("seed", seed))

			for i := 0; i < count; i++ {
				var rec *imprint.Record
				var err error
				if cmd.Bool("orders") {
					rec, err = imprintgen.FakeOrder(rng, size).ToImprint()
				} else {
					rec, err = imprintgen.FakeProduct(rng, size).ToImprint()
				}
				if err != nil {
					return fmt.Errorf("generate record %d: %w", i, err)
				}
				name := filepath.Join(outDir, fmt.Sprintf("%s-%04d.imp", kind, i))
				if err := writeRecordFile(name, rec, env.Overwrite); err != nil {
					return err
				}
				env.Log.Debug("Wrote record", zap.String("file", name), zap.Int("size", rec.SerializedSize()))
			}
			return nil
		},
	}
}

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:         "dump",
		Usage:        "print record contents as an indented tree",
		ArgsUsage:    "FILE...",
		OnUsageError: usageErrorHandler,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "validate", Usage: "run the strict validation pass first"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env := state.EnvFromContext(ctx)
			if cmd.NArg() == 0 {
				return errors.New("dump expects at least one record file")
			}
			for _, fname := range cmd.Args().Slice() {
				rec, err := readRecordFile(fname, env)
				if err != nil {
					return err
				}
				if cmd.Bool("validate") {
					if err := rec.Validate(); err != nil {
						return fmt.Errorf("%s: %w", fname, err)
					}
				}
				out, err := rec.Dump()
				if err != nil {
					return fmt.Errorf("%s: %w", fname, err)
				}
				fmt.Printf("%s:\n%s", fname, out)
			}
			return nil
		},
	}
}

func projectCommand() *cli.Command {
	return &cli.Command{
		Name:         "project",
		Usage:        "write a copy of a record restricted to the given field ids",
		ArgsUsage:    "IN OUT",
		OnUsageError: usageErrorHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "fields", Required: true, Usage: "comma-separated field `IDS`"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env := state.EnvFromContext(ctx)
			if cmd.NArg() != 2 {
				return errors.New("project expects input and output file arguments")
			}
			ids, err := parseFieldIDs(cmd.String("fields"))
			if err != nil {
				return err
			}
			rec, err := readRecordFile(cmd.Args().Get(0), env)
			if err != nil {
				return err
			}
			projected, err := rec.Project(ids)
			if err != nil {
				return err
			}
			env.Log.Info("Projected record",
				zap.Uint16s("requested", ids),
				zap.Int("kept", len(projected.Ids())))
			return writeRecordFile(cmd.Args().Get(1), projected, env.Overwrite)
		},
	}
}

func mergeCommand() *cli.Command {
	return &cli.Command{
		Name:         "merge",
		Usage:        "write the field-level union of two records, left side wins",
		ArgsUsage:    "BASE OVERLAY OUT",
		OnUsageError: usageErrorHandler,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env := state.EnvFromContext(ctx)
			if cmd.NArg() != 3 {
				return errors.New("merge expects base, overlay and output file arguments")
			}
			base, err := readRecordFile(cmd.Args().Get(0), env)
			if err != nil {
				return err
			}
			overlay, err := readRecordFile(cmd.Args().Get(1), env)
			if err != nil {
				return err
			}
			merged, err := base.Merge(overlay)
			if err != nil {
				return err
			}
			env.Log.Info("Merged records",
				zap.Int("base fields", len(base.Ids())),
				zap.Int("overlay fields", len(overlay.Ids())),
				zap.Int("merged fields", len(merged.Ids())))
			return writeRecordFile(cmd.Args().Get(2), merged, env.Overwrite)
		},
	}
}

func readRecordFile(fname string, env *state.LocalEnv) (*imprint.Record, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	rec, n, err := imprint.Read(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if n != len(data) {
		env.Log.Warn("Record file has trailing bytes",
			zap.String("file", fname), zap.Int("trailing", len(data)-n))
	}
	return rec, nil
}

func writeRecordFile(fname string, rec *imprint.Record, overwrite bool) error {
	if _, err := os.Stat(fname); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s (use -overwrite)", fname)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	var buf bytes.Buffer
	if err := rec.Write(&buf); err != nil {
		return err
	}
	return os.WriteFile(fname, buf.Bytes(), 0644)
}

func parseFieldIDs(s string) ([]uint16, error) {
	parts := strings.Split(s, ",")
	ids := make([]uint16, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid field id %q: %w", p, err)
		}
		ids = append(ids, uint16(v))
	}
	if len(ids) == 0 {
		return nil, errors.New("no field ids given")
	}
	return ids, nil
}
