package main

import (
	"errors"
	"fmt"
	"io"
	"math"

	"git.gammaspectra.live/P2Pool/scytale/types"
	"git.gammaspectra.live/P2Pool/scytale/utils"
	"git.gammaspectra.live/P2Pool/scytale/xtea"
	"github.com/spf13/cobra"
)

// maxXTEAInput largest standard input accepted by the xtea commands
const maxXTEAInput = math.MaxInt32

type xteaOptions struct {
	key      string
	parallel int
	json     bool
}

type xteaResult struct {
	Operation string      `json:"operation"`
	Blocks    int         `json:"blocks"`
	Data      types.Bytes `json:"data"`
}

func newXTEACmd() *cobra.Command {
	var opts xteaOptions

	cmd := &cobra.Command{
		Use:   "xtea",
		Short: "Encipher or decipher standard input with XTEA",
	}

	cmd.PersistentFlags().StringVarP(&opts.key, "key", "k", "", "128-bit key as hex, whitespace, _ and 0x are ignored")
	withParallel(cmd.PersistentFlags(), &opts.parallel, "routines used")
	withJSON(cmd.PersistentFlags(), &opts.json)
	if err := cmd.MarkPersistentFlagRequired("key"); err != nil {
		utils.Panicf("xtea: %s", err)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encipher",
		Short: "Encipher standard input, its length must be a multiple of 8 bytes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runXTEA(cmd, opts, "encipher", xtea.Encipher, xtea.EncipherParallel)
		},
	}, &cobra.Command{
		Use:   "decipher",
		Short: "Decipher standard input, its length must be a multiple of 8 bytes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runXTEA(cmd, opts, "decipher", xtea.Decipher, xtea.DecipherParallel)
		},
	})

	return cmd
}

func runXTEA(cmd *cobra.Command, opts xteaOptions, operation string, single func([]byte, *xtea.Key) error, parallel func([]byte, *xtea.Key, int) error) error {
	keyBytes, err := utils.ParseHex(opts.key)
	if err != nil {
		return fmt.Errorf("--key: %w", err)
	}
	key, err := xtea.KeyFromBytes(keyBytes)
	if err != nil {
		return fmt.Errorf("--key: %w", err)
	}

	var buf []byte
	if _, err = utils.ReadFullProgressive(cmd.InOrStdin(), &buf, maxXTEAInput); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}

	if opts.parallel == 1 {
		err = single(buf, &key)
	} else {
		err = parallel(buf, &key, opts.parallel)
	}
	if err != nil {
		return err
	}
	utils.Debugf("xtea", "%s %d blocks", operation, len(buf)/xtea.BlockSize)

	w := cmd.OutOrStdout()
	if opts.json {
		out, err := utils.MarshalJSON(xteaResult{
			Operation: operation,
			Blocks:    len(buf) / xtea.BlockSize,
			Data:      buf,
		})
		if err != nil {
			return err
		}
		_, err = w.Write(append(out, '\n'))
		return err
	}

	_, err = w.Write(buf)
	return err
}
