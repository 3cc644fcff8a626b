package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"git.gammaspectra.live/P2Pool/scytale/types"
	"git.gammaspectra.live/P2Pool/scytale/utils"
	"github.com/dolthub/swiss"
	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("digest check failed")

// manifest digests by name, in the order they were listed
type manifest struct {
	digests *swiss.Map[string, types.Digest]
	names   []string
}

// readManifest parses "<digest>  <name>" lines, as printed by the whirlpool command. Empty lines
// and lines starting with # are skipped.
func readManifest(r io.Reader) (*manifest, error) {
	m := &manifest{
		digests: swiss.NewMap[string, types.Digest](64),
	}

	scanner := bufio.NewScanner(r)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		digestHex, name, ok := strings.Cut(line, " ")
		// binary mode marker from sha*sum style manifests
		name = strings.TrimPrefix(strings.TrimLeft(name, " "), "*")
		if !ok || name == "" {
			return nil, fmt.Errorf("manifest line %d: missing name", lineNumber)
		}

		digest, err := types.DigestFromString(strings.ToLower(digestHex))
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: %w", lineNumber, err)
		}

		if previous, ok := m.digests.Get(name); ok {
			if previous != digest {
				return nil, fmt.Errorf("manifest line %d: conflicting digests for %s", lineNumber, name)
			}
			continue
		}
		m.digests.Put(name, digest)
		m.names = append(m.names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// runCheck verifies every manifest entry, or only the given names when they are not just stdin
func runCheck(cmd *cobra.Command, opts whirlpoolOptions, args []string) error {
	f, err := os.Open(opts.check)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := readManifest(f)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.check, err)
	}
	utils.Debugf("check", "%s lists %d digests", opts.check, m.digests.Count())

	names := m.names
	if len(args) > 1 || args[0] != stdinName {
		for _, name := range args {
			if !m.digests.Has(name) {
				return fmt.Errorf("%s is not listed in %s", name, opts.check)
			}
		}
		names = args
	}

	results, err := hashInputs(cmd.InOrStdin(), names, opts.parallel)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	var failed int
	for _, r := range results {
		expected, _ := m.digests.Get(r.Name)
		status := "OK"
		if expected != r.Digest {
			status = "FAILED"
			failed++
			utils.Noticef("check", "%s: expected %s, got %s", r.Name, expected, r.Digest)
		}
		if _, err = fmt.Fprintf(w, "%s: %s\n", r.Name, status); err != nil {
			return err
		}
	}

	if failed > 0 {
		utils.Errorf("check", "%d of %d computed digests did not match", failed, len(results))
		return errCheckFailed
	}
	utils.Logf("check", "%d digests verified against %s", len(results), opts.check)
	return nil
}
