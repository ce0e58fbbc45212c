package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/n2code/leocore"
	"github.com/n2code/leocore/cmd/leocore/flags"
	"github.com/n2code/leocore/internal"
	"github.com/n2code/leocore/internal/output"
)

type cli struct {
	out         io.Writer
	errOut      io.Writer
	escapes     bool
	verbose     bool
	quiet       bool
	sessionPath string
	printer     output.Printer
}

type usageError struct {
	error
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "leocore",
		Short: "Restructure clone-aware outlines of external files",
		Long: `leocore reads files carrying outline sentinels (or clean files, or XML outlines)
into a session kept next to the file. Nodes can be moved, linked as clones and
unlinked; every change can be undone. Export writes the restructured file back.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose && c.quiet {
				return usageError{errors.New("quiet mode and verbose mode are mutually exclusive")}
			}
			c.printer = output.NewPrinterTo(output.Classes(c.verbose, c.quiet), c.escapes, c.out, c.errOut)
			return nil
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	root.PersistentFlags().BoolVarP(&c.verbose, flags.Verbose, "v", false, "output more details on what is done (verbose mode)")
	root.PersistentFlags().BoolVarP(&c.quiet, flags.Quiet, "q", false, "output only requested information (quiet mode)")
	root.PersistentFlags().StringVar(&c.sessionPath, flags.Session, "", "session file (default: FILE"+sessionSuffix+")")

	root.AddCommand(
		c.openCommand(),
		c.treeCommand(),
		c.showCommand(),
		c.checkCommand(),
		c.cleanCommand(),
		c.verifyCommand(),
		c.moveCommand(),
		c.linkCommand(),
		c.unlinkCommand(),
		c.flagCommand("expand", "Expand a node", leocore.Tree.Expand),
		c.flagCommand("collapse", "Collapse a node", leocore.Tree.Collapse),
		c.historyCommand("undo", "Revert the latest change", (*leocore.History).Undo),
		c.historyCommand("redo", "Perform the latest reverted change again", (*leocore.History).Redo),
		c.exportCommand(),
		c.logCommand(),
	)
	return root
}

func (c *cli) sessionFor(file string) string {
	if c.sessionPath != "" {
		return mustAbsFilepath(c.sessionPath)
	}
	return defaultSessionPath(mustAbsFilepath(file))
}

func (c *cli) load(file string) (*session, error) {
	s, err := loadSession(c.sessionFor(file))
	if err != nil {
		return nil, err
	}
	c.printer.Out(output.Verbose, "Session %s on %s\n", s.ID, c.pleasant(s.File))
	return s, nil
}

func (c *cli) pleasant(absolute string) string {
	return pleasantPath(absolute, mustGetwd(), false)
}

func detectFormat(file string, text string) string {
	switch {
	case strings.HasSuffix(file, ".leo") || strings.HasPrefix(strings.TrimSpace(text), "<?xml"):
		return xmlOutline
	case strings.Contains(text, "@+leo-ver=5-thin"):
		return sentinelFile
	default:
		return cleanFile
	}
}

func (c *cli) openCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open FILE",
		Short: "Read a file into a new session",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := mustAbsFilepath(args[0])
			text, err := readText(file)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString(flags.Format)
			if format == "" {
				format = detectFormat(file, text)
			}
			path := c.sessionFor(file)
			if force, _ := cmd.Flags().GetBool(flags.Force); !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("session %s exists, use --%s to replace it", c.pleasant(path), flags.Force)
				}
			}
			s, err := newSession(path, file, format, text)
			if err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}
			nodes := s.tree.Len() - 1
			c.printer.Out(output.Normal, "Opened %s as %s file with %d %s\n", c.pleasant(file), format, nodes, output.Plural(nodes, "node", "nodes"))
			c.printer.Out(output.Verbose, "Session %s stored in %s\n", s.ID, c.pleasant(path))
			return nil
		},
	}
	cmd.Flags().String(flags.Format, "", "file format: "+sentinelFile+"|"+cleanFile+"|"+xmlOutline+" (default: detected)")
	cmd.Flags().Bool(flags.Force, false, "replace an existing session")
	return cmd
}

func addressFlags(cmd *cobra.Command) {
	cmd.Flags().Int(flags.Index, 0, "outline index of the node")
	cmd.Flags().Int(flags.Label, 0, "stable label of the node (see tree --"+flags.TreeWithKeys+")")
}

// address resolves the node given by --index or --label.
func address(cmd *cobra.Command, tree leocore.Tree) (int, error) {
	byIndex, byLabel := cmd.Flags().Changed(flags.Index), cmd.Flags().Changed(flags.Label)
	switch {
	case byIndex && byLabel:
		return 0, usageError{fmt.Errorf("--%s and --%s are mutually exclusive", flags.Index, flags.Label)}
	case byLabel:
		label, _ := cmd.Flags().GetInt(flags.Label)
		i, found := tree.IndexOfLabel(label)
		if !found {
			return 0, fmt.Errorf("no node labelled %d", label)
		}
		return i, nil
	case byIndex:
		index, _ := cmd.Flags().GetInt(flags.Index)
		return index, nil
	}
	return 0, usageError{fmt.Errorf("node required, use --%s or --%s", flags.Index, flags.Label)}
}

func (c *cli) treeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the outline",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(args[0])
			if err != nil {
				return err
			}
			showCollapsed, _ := cmd.Flags().GetBool(flags.TreeShowCollapsed)
			withKeys, _ := cmd.Flags().GetBool(flags.TreeWithKeys)
			c.printer.Out(output.Required, "%s", c.render(s, showCollapsed, withKeys))
			return nil
		},
	}
	cmd.Flags().Bool(flags.TreeShowCollapsed, false, "include the descendants of collapsed nodes")
	cmd.Flags().Bool(flags.TreeWithKeys, false, "show content keys and labels")
	return cmd
}

func (c *cli) render(s *session, showCollapsed bool, withKeys bool) string {
	v := output.NewVisualOutline(c.printer.Dim(c.pleasant(s.File)))
	hiddenBelow := 0
	for i := 1; i < s.tree.Len(); i++ {
		n, _ := s.tree.NodeAt(i)
		if hiddenBelow > 0 && n.Level > hiddenBelow {
			continue
		}
		hiddenBelow = 0
		prefix := c.printer.Dim(strconv.Itoa(i)) + " "
		if size, _ := s.tree.SubtreeSize(i); size > 1 {
			if n.Expanded {
				prefix += "[-] "
			} else {
				prefix += "[+] "
				if !showCollapsed {
					hiddenBelow = n.Level
				}
			}
		}
		heading := output.Abbreviate(n.Heading, 72)
		if n.Cloned {
			heading += " " + c.printer.Changed("(clone)")
		}
		if withKeys {
			heading += c.printer.Dim(fmt.Sprintf(" <%s #%d>", n.Key, n.Label))
		}
		v.Insert(n.Level, prefix, heading)
	}
	return v.Render()
}

func (c *cli) showCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print one node",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(args[0])
			if err != nil {
				return err
			}
			i, err := address(cmd, s.tree)
			if err != nil {
				return err
			}
			n, err := s.tree.NodeAt(i)
			if err != nil {
				return err
			}
			parents, _ := s.tree.ParentsIndexes(i)
			c.printer.Out(output.Required, "%s\n", n.Heading)
			c.printer.Out(output.Required, "  key:      %s\n  index:    %d\n  level:    %d\n  label:    %d\n", n.Key, n.Index, n.Level, n.Label)
			c.printer.Out(output.Required, "  expanded: %v\n  parents:  %v\n", n.Expanded, parents)
			if n.Body != "" {
				c.printer.Out(output.Required, "\n%s\n", output.Indent(4, strings.TrimSuffix(n.Body, "\n")))
			}
			return nil
		},
	}
	addressFlags(cmd)
	return cmd
}

func (c *cli) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Validate levels, labels and clones of the outline",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(args[0])
			if err != nil {
				return err
			}
			found := s.tree.Check()
			for _, broken := range found {
				c.printer.Out(output.Required, "%s\n", broken)
			}
			if len(found) > 0 {
				return fmt.Errorf("%d %s found", len(found), output.Plural(len(found), "issue", "issues"))
			}
			c.printer.Out(output.Normal, "No issues found.\n")
			return nil
		},
	}
}

func (c *cli) cleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean FILE",
		Short: "Print the sentinel-free text of a node",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(args[0])
			if err != nil {
				return err
			}
			i := 1
			if cmd.Flags().Changed(flags.Index) || cmd.Flags().Changed(flags.Label) {
				if i, err = address(cmd, s.tree); err != nil {
					return err
				}
			}
			name, _ := cmd.Flags().GetString(flags.Mode)
			mode, err := leocore.ParseTraversalMode(name)
			if err != nil {
				return usageError{err}
			}
			text, err := s.tree.CleanText(i, mode)
			if err != nil {
				return err
			}
			c.printer.Out(output.Required, "%s", text)
			return nil
		},
	}
	addressFlags(cmd)
	cmd.Flags().String(flags.Mode, leocore.TraverseAll.String(), "expand "+leocore.TraverseAll.String()+"|"+leocore.SkipSections.String()+"|"+leocore.SkipSectionsAndOthers.String())
	return cmd
}

// expectedText is what the file should contain according to the session.
func expectedText(s *session) (string, error) {
	switch s.Kind {
	case sentinelFile:
		return s.ext.Regenerate()
	case cleanFile:
		return s.tree.CleanText(1, leocore.TraverseAll)
	}
	return "", fmt.Errorf("%s outlines cannot be written back", s.Kind)
}

func unifiedDiff(fromName string, from string, toName string, to string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
	internal.AssertNoError(err, "diff is written to memory")
	return diff
}

func (c *cli) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify FILE",
		Short: "Compare the file on disk to the text the session would write",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(args[0])
			if err != nil {
				return err
			}
			expected, err := expectedText(s)
			if err != nil {
				return err
			}
			onDisk, err := readText(s.File)
			if err != nil {
				return err
			}
			name := c.pleasant(s.File)
			if onDisk == expected {
				c.printer.Out(output.Normal, "%s is in sync with the session\n", name)
				return nil
			}
			c.printer.Out(output.Required, "%s", unifiedDiff(name, onDisk, "session", expected))
			return fmt.Errorf("%s differs from the session", name)
		},
	}
}

// operate wraps a structural operation: it is recorded for undo and the session is saved,
// unless the operation had no effect.
func (c *cli) operate(name string, op func(cmd *cobra.Command, s *session, args []string) (string, bool, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := c.load(args[0])
		if err != nil {
			return err
		}
		token, ok, err := op(cmd, s, args)
		if err != nil {
			return err
		}
		if !ok {
			c.printer.Out(output.Normal, "No effect, outline unchanged.\n")
			return nil
		}
		s.record(name, token)
		if err := s.save(); err != nil {
			return err
		}
		c.printer.Out(output.Normal, "Done: %s\n", name)
		c.printer.Out(output.Verbose, "%s\n", output.Indent(2, token))
		return nil
	}
}

func (c *cli) moveCommand() *cobra.Command {
	move := &cobra.Command{
		Use:   "move",
		Short: "Move a node among its siblings or between levels",
	}
	directions := []struct {
		name string
		op   func(leocore.Tree, int) (string, bool)
	}{
		{"up", leocore.Tree.MoveUp},
		{"down", leocore.Tree.MoveDown},
		{"left", leocore.Tree.MoveLeft},
		{"right", leocore.Tree.MoveRight},
	}
	for _, d := range directions {
		d := d
		cmd := &cobra.Command{
			Use:   d.name + " FILE",
			Short: "Move a node " + d.name,
			Args:  exactArgs(1),
			RunE: c.operate("move "+d.name, func(cmd *cobra.Command, s *session, args []string) (string, bool, error) {
				i, err := address(cmd, s.tree)
				if err != nil {
					return "", false, err
				}
				token, ok := d.op(s.tree, i)
				return token, ok, nil
			}),
		}
		addressFlags(cmd)
		move.AddCommand(cmd)
	}
	return move
}

func (c *cli) linkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link FILE PARENT_KEY CHILD_KEY",
		Short: "Insert a clone of a node below every occurrence of another",
		Long:  "Use " + leocore.RootKey + " as PARENT_KEY for a top-level clone.",
		Args:  exactArgs(3),
		RunE: c.operate("link", func(cmd *cobra.Command, s *session, args []string) (string, bool, error) {
			parent, child := args[1], args[2]
			at, found := s.tree.Find(parent)
			if !found {
				return "", false, fmt.Errorf("no node with key %s", parent)
			}
			ordinal, _ := cmd.Flags().GetInt(flags.Ordinal)
			if ordinal < 0 {
				children, _ := s.tree.Children(at)
				ordinal = len(children)
			}
			token, ok := s.tree.CreateLink(parent, ordinal, child)
			return token, ok, nil
		}),
	}
	cmd.Flags().Int(flags.Ordinal, -1, "position among the children (default: last)")
	return cmd
}

func (c *cli) unlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink FILE PARENT_KEY ORDINAL",
		Short: "Remove a child from every occurrence of a node",
		Args:  exactArgs(3),
		RunE: c.operate("unlink", func(cmd *cobra.Command, s *session, args []string) (string, bool, error) {
			ordinal, err := strconv.Atoi(args[2])
			if err != nil {
				return "", false, usageError{fmt.Errorf("bad ordinal %q", args[2])}
			}
			token, ok := s.tree.BreakLink(args[1], ordinal)
			return token, ok, nil
		}),
	}
}

func (c *cli) flagCommand(name string, short string, op func(leocore.Tree, int) (string, bool)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " FILE",
		Short: short,
		Args:  exactArgs(1),
		RunE: c.operate(name, func(cmd *cobra.Command, s *session, args []string) (string, bool, error) {
			i, err := address(cmd, s.tree)
			if err != nil {
				return "", false, err
			}
			token, ok := op(s.tree, i)
			return token, ok, nil
		}),
	}
	addressFlags(cmd)
	return cmd
}

func (c *cli) historyCommand(name string, short string, step func(*leocore.History, leocore.Tree) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " FILE",
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(args[0])
			if err != nil {
				return err
			}
			token, err := step(&s.History, s.tree)
			if err != nil {
				return err
			}
			s.journal(name, token)
			if err := s.save(); err != nil {
				return err
			}
			c.printer.Out(output.Normal, "Done: %s\n", name)
			c.printer.Out(output.Verbose, "%s\n", output.Indent(2, token))
			return nil
		},
	}
}

func (c *cli) exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the restructured file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(args[0])
			if err != nil {
				return err
			}
			target, _ := cmd.Flags().GetString(flags.Output)
			force, _ := cmd.Flags().GetBool(flags.Force)
			var text string
			if s.Kind == xmlOutline {
				if target == "" {
					return usageError{fmt.Errorf("an XML outline is exported as clean text, --%s required", flags.Output)}
				}
				i := 1
				if cmd.Flags().Changed(flags.Index) || cmd.Flags().Changed(flags.Label) {
					if i, err = address(cmd, s.tree); err != nil {
						return err
					}
				}
				text, err = s.tree.CleanText(i, leocore.TraverseAll)
			} else {
				text, err = expectedText(s)
			}
			if err != nil {
				return err
			}
			if target == "" {
				target = s.File
			}
			target = mustAbsFilepath(target)

			if target == s.File && s.ext != nil && !force {
				if onDisk, err := readText(s.File); err == nil && onDisk != s.ext.Source() {
					return fmt.Errorf("%s was changed since it was opened, use --%s to overwrite", c.pleasant(s.File), flags.Force)
				}
			}
			if err := atomic.WriteFile(target, strings.NewReader(text)); err != nil {
				return fmt.Errorf("writing %s: %w", c.pleasant(target), err)
			}
			if target == s.File && s.ext != nil {
				if _, err := s.ext.Commit(); err != nil {
					return err
				}
				s.journal("export", "")
				if err := s.save(); err != nil {
					return err
				}
			}
			c.printer.Out(output.Normal, "Wrote %s\n", c.pleasant(target))
			return nil
		},
	}
	addressFlags(cmd)
	cmd.Flags().String(flags.Output, "", "target file (default: the file the session was opened on)")
	cmd.Flags().Bool(flags.Force, false, "overwrite a file changed since it was opened")
	return cmd
}

func (c *cli) logCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "log FILE",
		Short: "List the operations performed in the session",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(args[0])
			if err != nil {
				return err
			}
			for k, entry := range s.Journal {
				c.printer.Out(output.Required, "%3d %s\n", k+1, entry.Command)
				if entry.Token != "" && c.printer.Enabled(output.Verbose) {
					c.printer.Out(output.Verbose, "%s\n", output.Indent(6, entry.Token))
				}
			}
			c.printer.Out(output.Normal, "%d undoable, %d redoable\n", len(s.History.Done), len(s.History.Undone))
			return nil
		},
	}
}
