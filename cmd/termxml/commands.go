package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/termxml/document"
	"github.com/c360studio/termxml/terminology"
)

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Terminology-driven XML queries",
		Long: `termxml maps named terms onto the structure of XML documents.

A pointer such as person[1].first_name is compiled into an XPath query
through a terminology, then used to read, update, append or delete the
values it addresses.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&flags.terminology, "terminology", "", "Terminology definition file (YAML)")
	pf.StringVar(&flags.vocabulary, "vocabulary", "", "Built-in vocabulary name")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.charset, "charset", "", "Charset of input documents that do not declare one")
	pf.BoolVar(&flags.showMetrics, "metrics", false, "Print collected metrics to stderr on exit")

	cmd.AddCommand(
		xpathCmd(flags),
		valuesCmd(flags),
		updateCmd(flags),
		deleteCmd(flags),
		termsCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// withApp wraps a command body with configuration loading and the
// optional metrics dump.
func withApp(flags *globalFlags, run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, flags)
		if err != nil {
			return err
		}
		runErr := run(cmd, a, args)
		if flags.showMetrics {
			if err := a.writeMetrics(cmd.ErrOrStderr()); err != nil && runErr == nil {
				runErr = err
			}
		}
		return runErr
	}
}

func xpathCmd(flags *globalFlags) *cobra.Command {
	var constrained bool

	cmd := &cobra.Command{
		Use:   "xpath <pointer>",
		Short: "Print the query a pointer compiles to",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, a *app, args []string) error {
			p, err := terminology.ParsePointer(args[0])
			if err != nil {
				return err
			}
			if constrained {
				tmpl, ok := a.compiler.Template(p.TermNames()...)
				if !ok {
					return fmt.Errorf("no term at %s", p.String())
				}
				fmt.Fprintln(cmd.OutOrStdout(), tmpl.String())
				return nil
			}
			query, ok, err := a.compiler.Compile(p)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("pointer %s does not resolve", p.String())
			}
			fmt.Fprintln(cmd.OutOrStdout(), query)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&constrained, "constrained", false, "Print the value-constraint template instead")
	return cmd
}

func valuesCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "values <pointer> <file-or-glob>...",
		Short: "Print the values a pointer addresses in each document",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, a *app, args []string) error {
			p, err := terminology.ParsePointer(args[0])
			if err != nil {
				return err
			}
			files, err := expandFiles(args[1:])
			if err != nil {
				return err
			}

			out := make(map[string][]string, len(files))
			for _, f := range files {
				d, err := a.open(f)
				if err != nil {
					return err
				}
				vals, ok, err := d.TermValues(p)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("pointer %s does not resolve", p.String())
				}
				out[f] = vals
			}
			return writeValues(cmd.OutOrStdout(), format, files, out)
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")
	return cmd
}

func updateCmd(flags *globalFlags) *cobra.Command {
	var (
		sets        []string
		appends     []string
		updatesFile string
		inPlace     bool
		output      string
	)

	cmd := &cobra.Command{
		Use:   "update <file>",
		Short: "Update, append or delete values in a document",
		Long: `Apply value updates to a document and print the applied indexes.

--set 'pointer=value' writes the first match of pointer.
--append 'pointer=value' adds a new node after the matches.
--updates file.yaml maps pointers to {index: value}; index -1 appends.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, a *app, args []string) error {
			var updates []document.FieldUpdate
			for _, s := range sets {
				p, v, err := parseAssignment(s)
				if err != nil {
					return err
				}
				updates = append(updates, document.Set(p, v))
			}
			for _, s := range appends {
				p, v, err := parseAssignment(s)
				if err != nil {
					return err
				}
				updates = append(updates, document.Append(p, v))
			}
			if updatesFile != "" {
				fromFile, err := loadUpdates(updatesFile)
				if err != nil {
					return err
				}
				updates = append(updates, fromFile...)
			}
			if len(updates) == 0 {
				return fmt.Errorf("no updates given")
			}

			d, err := a.open(args[0])
			if err != nil {
				return err
			}
			res, err := d.UpdateValues(updates...)
			if err != nil {
				return err
			}
			if err := encodeYAML(cmd.ErrOrStderr(), res); err != nil {
				return err
			}
			return a.save(d, target(args[0], inPlace, output), cmd.OutOrStdout())
		}),
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "pointer=value to write at the first match")
	cmd.Flags().StringArrayVar(&appends, "append", nil, "pointer=value to append")
	cmd.Flags().StringVar(&updatesFile, "updates", "", "YAML file of updates")
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "Write the document back to its file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to this file")
	return cmd
}

func deleteCmd(flags *globalFlags) *cobra.Command {
	var (
		selectPointer string
		parentPointer string
		parentRoot    bool
		parentIndex   string
		childIndex    string
		inPlace       bool
		output        string
	)

	cmd := &cobra.Command{
		Use:   "delete <file>",
		Short: "Delete nodes from a document",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, a *app, args []string) error {
			var params document.DeleteParams
			switch {
			case selectPointer != "":
				p, err := terminology.ParsePointer(selectPointer)
				if err != nil {
					return err
				}
				params.Select = p
			case parentPointer != "" || parentRoot:
				p, err := terminology.ParsePointer(parentPointer)
				if err != nil {
					return err
				}
				params.ParentSelect = p
				params.ParentRoot = parentRoot
				if params.ParentIndex, err = document.ParseNodeIndex(parentIndex); err != nil {
					return err
				}
				if params.ChildIndex, err = document.ParseNodeIndex(childIndex); err != nil {
					return err
				}
			default:
				return fmt.Errorf("one of --select, --parent or --parent-root is required")
			}

			d, err := a.open(args[0])
			if err != nil {
				return err
			}
			n, err := d.TermValueDelete(params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "removed %d\n", n)
			return a.save(d, target(args[0], inPlace, output), cmd.OutOrStdout())
		}),
	}
	cmd.Flags().StringVar(&selectPointer, "select", "", "Pointer whose matches are all removed")
	cmd.Flags().StringVar(&parentPointer, "parent", "", "Pointer selecting the parent node")
	cmd.Flags().BoolVar(&parentRoot, "parent-root", false, "Use the root element as the parent")
	cmd.Flags().StringVar(&parentIndex, "parent-index", "first", "Parent to use: first, last or an index")
	cmd.Flags().StringVar(&childIndex, "child-index", "first", "Child element to remove: first, last or an index")
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "Write the document back to its file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to this file")
	cmd.MarkFlagsMutuallyExclusive("select", "parent", "parent-root")
	return cmd
}

func termsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "terms",
		Short: "List the terms of the terminology with their queries",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(cmd *cobra.Command, a *app, args []string) error {
			w := cmd.OutOrStdout()
			for _, name := range a.compiler.Terminology().Names() {
				query, ok, err := a.compiler.Compile(terminology.Names(strings.Split(name, ".")...))
				if err != nil {
					return err
				}
				if !ok {
					query = "(unresolved)"
				}
				fmt.Fprintf(w, "%s\t%s\n", name, query)
			}
			return nil
		}),
	}
}

// target picks where an edited document goes; empty means stdout.
func target(file string, inPlace bool, output string) string {
	if output != "" {
		return output
	}
	if inPlace {
		return file
	}
	return ""
}

// expandFiles resolves glob patterns; plain paths pass through so a
// missing file is reported when opened.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			if !seen[pattern] {
				seen[pattern] = true
				files = append(files, pattern)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files match %s", strings.Join(patterns, " "))
	}
	return files, nil
}

func writeValues(w io.Writer, format string, files []string, values map[string][]string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	case "yaml":
		return encodeYAML(w, values)
	case "text":
		for _, f := range files {
			for _, v := range values[f] {
				if len(files) > 1 {
					fmt.Fprintf(w, "%s: %s\n", f, v)
					continue
				}
				fmt.Fprintln(w, v)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// parseAssignment splits "pointer=value" at the first '=' outside braces
// and quotes, so constraint values may contain '='.
func parseAssignment(s string) (terminology.Pointer, string, error) {
	depth := 0
	var quote rune
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '{':
			depth++
		case r == '}':
			depth--
		case r == '=' && depth == 0:
			p, err := terminology.ParsePointer(s[:i])
			if err != nil {
				return terminology.Pointer{}, "", err
			}
			return p, s[i+1:], nil
		}
	}
	return terminology.Pointer{}, "", fmt.Errorf("expected pointer=value, got %q", s)
}

// loadUpdates reads a YAML mapping of pointer to {index: value}.
func loadUpdates(path string) ([]document.FieldUpdate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read updates file: %w", err)
	}
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse updates file: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]document.FieldUpdate, 0, len(keys))
	for _, k := range keys {
		p, err := terminology.ParsePointer(k)
		if err != nil {
			return nil, err
		}
		u := document.FieldUpdate{Pointer: p}

		indexes := make([]int, 0, len(raw[k]))
		byIndex := make(map[int]string, len(raw[k]))
		for idx, v := range raw[k] {
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, fmt.Errorf("%s: index %q is not an integer", k, idx)
			}
			indexes = append(indexes, n)
			byIndex[n] = v
		}
		// Existing indexes first, appends last.
		sort.Slice(indexes, func(i, j int) bool {
			a, b := indexes[i], indexes[j]
			if (a < 0) != (b < 0) {
				return b < 0
			}
			return a < b
		})
		for _, n := range indexes {
			u.Values = append(u.Values, document.IndexedValue{Index: n, Value: byIndex[n]})
		}
		updates = append(updates, u)
	}
	return updates, nil
}
