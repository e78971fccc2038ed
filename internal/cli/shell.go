package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/earth-metabolome-initiative/schemacat/catalog"
	"github.com/earth-metabolome-initiative/schemacat/docextract"
	"github.com/earth-metabolome-initiative/schemacat/ingest"
	"github.com/earth-metabolome-initiative/schemacat/sqlparser"
)

var shellCmd = &cobra.Command{
	Use:   "shell [path]",
	Short: "Interactive catalog session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := &session{out: cmd.OutOrStdout()}
		name, src := "shell", ""
		if len(args) == 1 {
			collected, err := ingest.CollectSQL(args[0])
			if err != nil {
				return err
			}
			name, src = catalogName(args[0]), collected
		}
		if err := sess.load(name, src); err != nil {
			return err
		}
		return sess.run()
	},
}

func init() {
	RootCmd.AddCommand(shellCmd)
}

// session is one interactive catalog. Statements accumulate and every input
// replays the whole list, so a failing statement leaves the catalog exactly
// as it was.
type session struct {
	out   io.Writer
	name  string
	stmts []sqlparser.Statement
	docs  map[string]string
	cat   *catalog.Catalog
}

func (s *session) load(name, src string) error {
	stmts, err := sqlparser.Parse(src)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	docs := docextract.Extract(src)
	c, err := catalog.Build(name, stmts, catalog.WithTableDocs(docs))
	if err != nil {
		return err
	}
	s.name, s.stmts, s.docs, s.cat = name, stmts, docs, c
	return nil
}

func (s *session) exec(src string) {
	stmts, err := sqlparser.Parse(src)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if len(stmts) == 0 {
		return
	}

	if s.docs == nil {
		s.docs = map[string]string{}
	}
	for k, v := range docextract.Extract(src) {
		s.docs[k] = v
	}

	all := append(slices.Clone(s.stmts), stmts...)
	c, err := catalog.Build(s.name, all, catalog.WithTableDocs(s.docs))
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.stmts, s.cat = all, c
	fmt.Fprintf(s.out, "ok (tables: %d)\n", len(c.Tables()))
}

func (s *session) run() error {
	h := newHistory(defaultHistoryPath())
	_ = h.load(historyMax)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "schemacat> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	for _, line := range h.lines {
		_ = rl.SaveHistory(line)
	}

	fmt.Fprintf(s.out, "catalog %s: %d tables\n", s.cat.Name(), len(s.cat.Tables()))
	fmt.Fprintln(s.out, `type \? for help`)

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			// Ctrl+C clears the current buffer.
			if buf.Len() > 0 {
				buf.Reset()
				rl.SetPrompt("schemacat> ")
				continue
			}
			fmt.Fprintln(s.out, "^C")
			continue
		}
		if err != nil {
			fmt.Fprintln(s.out)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && strings.HasPrefix(line, `\`) {
			if s.meta(line, h) {
				return nil
			}
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)

		if !statementComplete(buf.String()) {
			rl.SetPrompt("...> ")
			continue
		}

		stmt := strings.TrimSpace(buf.String())
		buf.Reset()
		rl.SetPrompt("schemacat> ")

		_ = h.append(stmt)
		_ = rl.SaveHistory(compactOneLine(stmt))

		s.exec(stmt)
	}
}

func (s *session) meta(line string, h *history) (quit bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case `\q`:
		return true
	case `\?`:
		fmt.Fprint(s.out, shellHelp)
	case `\dt`:
		for _, t := range s.cat.Tables() {
			fmt.Fprintln(s.out, t.QualifiedName())
		}
	case `\d`:
		if arg == "" {
			fmt.Fprintln(s.out, `usage: \d <table>`)
			break
		}
		t, ok := lookupTable(s.cat, arg)
		if !ok {
			printSuggestions(s.out, s.cat, arg)
			fmt.Fprintf(s.out, "table %s not found\n", arg)
			break
		}
		renderTable(s.out, s.cat, t, stdoutIsTerminal())
	case `\dag`:
		order, err := s.cat.TableDAG()
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			break
		}
		for _, t := range order {
			fmt.Fprintln(s.out, t.QualifiedName())
		}
	case `\lint`:
		findings := lintFindings(s.cat)
		if len(findings) == 0 {
			fmt.Fprintln(s.out, "no findings")
			break
		}
		for _, f := range findings {
			fmt.Fprintln(s.out, f)
		}
	case `\history`:
		h.print(s.out, 50)
	default:
		fmt.Fprintf(s.out, "unknown command: %s\n", line)
	}
	return false
}

const shellHelp = `meta commands:
  \dt            list tables
  \d <table>     describe a table
  \dag           tables in dependency order
  \lint          report inert constraints and empty security setups
  \history       print recent statements
  \q             quit

sql:
  end statements with ';', multiline input is buffered until then
`

// statementComplete reports whether buf holds a ';' that terminates a
// statement: outside string literals, dollar quoting and comments.
func statementComplete(buf string) bool {
	i := 0
	for i < len(buf) {
		switch {
		case buf[i] == '\'':
			j := i + 1
			for j < len(buf) {
				if buf[j] == '\'' {
					if j+1 < len(buf) && buf[j+1] == '\'' {
						j += 2
						continue
					}
					break
				}
				j++
			}
			if j >= len(buf) {
				return false
			}
			i = j + 1
		case buf[i] == '$':
			tag := dollarTag(buf[i:])
			if tag == "" {
				i++
				continue
			}
			end := strings.Index(buf[i+len(tag):], tag)
			if end < 0 {
				return false
			}
			i += len(tag) + end + len(tag)
		case buf[i] == '-' && i+1 < len(buf) && buf[i+1] == '-':
			nl := strings.IndexByte(buf[i:], '\n')
			if nl < 0 {
				return false
			}
			i += nl + 1
		case buf[i] == '/' && i+1 < len(buf) && buf[i+1] == '*':
			end := strings.Index(buf[i+2:], "*/")
			if end < 0 {
				return false
			}
			i += 2 + end + 2
		case buf[i] == ';':
			return true
		default:
			i++
		}
	}
	return false
}

// dollarTag reads a $tag$ opener at the start of s, empty when s does not
// start one.
func dollarTag(s string) string {
	if len(s) < 2 || s[0] != '$' {
		return ""
	}
	j := 1
	for j < len(s) && s[j] != '$' {
		b := s[j]
		ok := b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
		if !ok {
			return ""
		}
		j++
	}
	if j >= len(s) {
		return ""
	}
	return s[:j+1]
}

const historyMax = 2000

type history struct {
	path  string
	lines []string
}

func newHistory(path string) *history {
	return &history{path: path}
}

func (h *history) load(max int) error {
	if h.path == "" {
		return nil
	}
	f, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		h.lines = append(h.lines, s)
		if max > 0 && len(h.lines) > max {
			h.lines = h.lines[len(h.lines)-max:]
		}
	}
	return sc.Err()
}

func (h *history) append(stmt string) error {
	stmt = compactOneLine(stmt)
	if stmt == "" || h.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, stmt); err != nil {
		return err
	}
	h.lines = append(h.lines, stmt)
	return nil
}

func (h *history) print(w io.Writer, last int) {
	if last <= 0 || last > len(h.lines) {
		last = len(h.lines)
	}
	for i := len(h.lines) - last; i < len(h.lines); i++ {
		fmt.Fprintf(w, "%5d  %s\n", i+1, h.lines[i])
	}
}

// compactOneLine collapses a statement to a single history line.
func compactOneLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".schemacat_history"
	}
	return filepath.Join(home, ".schemacat_history")
}
