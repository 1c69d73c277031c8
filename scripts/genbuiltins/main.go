// Package main regenerates internal/symbols/builtins.txt from a local PHP
// binary, one section per loaded extension.
//
// Usage:
//
//	go run ./scripts/genbuiltins -php=php -out=internal/symbols/builtins.txt
package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

var (
	phpFlag = flag.String("php", "php", "PHP binary to query")
	outFlag = flag.String("out", "", "output file path (required)")
)

// listScript prints "ext:function" for every internal function.
const listScript = `foreach (get_loaded_extensions() as $e) {
	foreach (get_extension_funcs($e) ?: [] as $f) { echo strtolower($e), ":", $f, "\n"; }
}`

// constructs are callable-looking language constructs that
// get_extension_funcs never reports.
var constructs = []string{"eval"}

func main() {
	flag.Parse()

	if *outFlag == "" {
		log.Fatal("--out flag is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	version, err := run(ctx, "echo PHP_VERSION;")
	if err != nil {
		log.Fatalf("failed to get version: %v", err)
	}
	log.Printf("Using PHP %s", version)

	out, err := run(ctx, listScript)
	if err != nil {
		log.Fatalf("failed to list functions: %v", err)
	}

	groups, err := parseGroups(out)
	if err != nil {
		log.Fatalf("failed to parse function list: %v", err)
	}
	groups["core"] = append(groups["core"], constructs...)

	code := generateList(version, groups)
	if err := os.WriteFile(*outFlag, code, 0o600); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}

	log.Printf("Generated %s", *outFlag)
}

func run(ctx context.Context, script string) (string, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, *phpFlag, "-r", script) //nolint:gosec // developer tool
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// parseGroups reads "ext:function" lines into functions keyed by extension.
func parseGroups(out string) (map[string][]string, error) {
	groups := make(map[string][]string)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		ext, name, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			return nil, fmt.Errorf("unexpected line %q", scanner.Text())
		}
		groups[ext] = append(groups[ext], name)
	}
	return groups, scanner.Err()
}

func generateList(version string, groups map[string][]string) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Code generated by scripts/genbuiltins. DO NOT EDIT.\n")
	fmt.Fprintf(&buf, "# Source: PHP %s\n", version)
	buf.WriteString("# One name per line; blank lines and lines starting with # are ignored.\n")

	exts := make([]string, 0, len(groups))
	for ext := range groups {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	for _, ext := range exts {
		names := groups[ext]
		sort.Strings(names)
		fmt.Fprintf(&buf, "\n# %s\n", ext)
		for _, name := range names {
			buf.WriteString(name)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}
