package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"git.gammaspectra.live/P2Pool/scytale/types"
	"git.gammaspectra.live/P2Pool/scytale/utils"
	"git.gammaspectra.live/P2Pool/scytale/whirlpool"
	"github.com/spf13/cobra"
)

const stdinName = "-"

// maxPrefixBytes largest prefix --bits can buffer, the size must fit in an int
var maxPrefixBytes uint64 = math.MaxInt

type whirlpoolOptions struct {
	json     bool
	bits     uint64
	check    string
	parallel int
}

type digestResult struct {
	Name   string       `json:"name"`
	Digest types.Digest `json:"digest"`
	Bits   uint64       `json:"bits"`
}

func newWhirlpoolCmd() *cobra.Command {
	var opts whirlpoolOptions

	cmd := &cobra.Command{
		Use:   "whirlpool [file...]",
		Short: "Print or check WHIRLPOOL digests",
		Long: "Print the WHIRLPOOL digest of each file, or of standard input when no file (or -) is given.\n" +
			"With --check, verify the digests listed in a manifest of \"<digest>  <name>\" lines.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{stdinName}
			}

			if opts.check != "" {
				return runCheck(cmd, opts, args)
			}

			if cmd.Flags().Changed("bits") {
				if len(args) != 1 {
					return errors.New("--bits needs exactly one input")
				}
				result, err := hashPrefix(cmd.InOrStdin(), args[0], opts.bits)
				if err != nil {
					return err
				}
				return printResults(cmd.OutOrStdout(), opts, []digestResult{result})
			}

			results, err := hashInputs(cmd.InOrStdin(), args, opts.parallel)
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), opts, results)
		},
	}

	withJSON(cmd.Flags(), &opts.json)
	cmd.Flags().Uint64Var(&opts.bits, "bits", 0, "hash only the first N bits of the input")
	cmd.Flags().StringVarP(&opts.check, "check", "c", "", "verify digests listed in `FILE`")
	withParallel(cmd.Flags(), &opts.parallel, "files hashed concurrently")

	cmd.MarkFlagsMutuallyExclusive("bits", "check")
	return cmd
}

func openInput(stdin io.Reader, name string) (io.ReadCloser, error) {
	if name == stdinName {
		return io.NopCloser(stdin), nil
	}
	return os.Open(name)
}

func hashInput(stdin io.Reader, name string) (result digestResult, err error) {
	r, err := openInput(stdin, name)
	if err != nil {
		return result, err
	}
	defer r.Close()

	start := time.Now()

	d := whirlpool.NewDigest()
	if _, err = io.Copy(d, r); err != nil {
		return result, fmt.Errorf("%s: %w", name, err)
	}

	result.Name = name
	result.Bits = d.Bits()
	if err = d.Finish(result.Digest[:]); err != nil {
		return result, err
	}

	if utils.IsLogLevelDebug() {
		elapsed := time.Since(start)
		utils.Debugf("whirlpool", "%s: %sbits in %s (%sB/s)", name, utils.SiUnits(float64(result.Bits), 2), elapsed, utils.SiUnits(float64(result.Bits/8)/elapsed.Seconds(), 2))
	}
	return result, nil
}

// hashPrefix hashes the first bits bits of the input, the last partial byte being taken from
// its most significant bits.
func hashPrefix(stdin io.Reader, name string, bits uint64) (result digestResult, err error) {
	r, err := openInput(stdin, name)
	if err != nil {
		return result, err
	}
	defer r.Close()

	size := bits / 8
	tail := uint(bits % 8)
	if tail != 0 {
		size++
	}
	if size > maxPrefixBytes {
		return result, fmt.Errorf("%s: %d bits requested, at most %d bytes can be buffered", name, bits, maxPrefixBytes)
	}

	var buf []byte
	if n, err := utils.ReadFullProgressive(r, &buf, int(size)); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return result, fmt.Errorf("%s: input has %d bits, %d requested", name, n*8, bits)
		}
		return result, fmt.Errorf("%s: %w", name, err)
	}

	d := whirlpool.NewDigest()
	whole := buf[:bits/8]
	if err = d.Add(whole); err != nil {
		return result, err
	}
	if tail != 0 {
		// AddBits reads the least significant bits
		if err = d.AddBits([]byte{buf[len(whole)] >> (8 - tail)}, uint64(tail)); err != nil {
			return result, err
		}
	}

	result.Name = name
	result.Bits = d.Bits()
	if err = d.Finish(result.Digest[:]); err != nil {
		return result, err
	}
	return result, nil
}

func hashInputs(stdin io.Reader, names []string, parallel int) ([]digestResult, error) {
	results := make([]digestResult, len(names))

	if parallel == 1 {
		for i, name := range names {
			result, err := hashInput(stdin, name)
			if err != nil {
				return nil, err
			}
			results[i] = result
		}
		return results, nil
	}

	for _, name := range names {
		if name == stdinName {
			return nil, errors.New("standard input cannot be hashed in parallel")
		}
	}

	err := utils.SplitWork(parallel, uint64(len(names)), func(workIndex uint64, routineIndex int) error {
		result, err := hashInput(stdin, names[workIndex])
		if err != nil {
			return err
		}
		utils.Debugf("whirlpool", "routine %d hashed %s", routineIndex, result.Name)
		results[workIndex] = result
		return nil
	}, func(routines, routineIndex int) error {
		if routineIndex == 0 {
			utils.Debugf("whirlpool", "hashing %d inputs with %d routines", len(names), routines)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func printResults(w io.Writer, opts whirlpoolOptions, results []digestResult) error {
	if opts.json {
		encoder := utils.NewJSONEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s  %s\n", r.Digest, r.Name); err != nil {
			return err
		}
	}
	return nil
}
