package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/dgleich/maruku/internal/assets"
	"github.com/dgleich/maruku/internal/engines/chrome"
	"github.com/dgleich/maruku/internal/engines/gofont"
	"github.com/dgleich/maruku/internal/mathrender"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

var supportedShells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // flagEnum
	FileGlob string   // flagFile, comma-separated ("*.yaml,*.yml")
}

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool {
	return f.Type != flagBool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed argument values
	FilePattern string   // glob for file arguments, empty if none
}

// completionMeta holds completion hints that the FlagSet cannot express.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps convert flag names to completion hints.
func flagCompletionMeta() map[string]completionMeta {
	return map[string]completionMeta{
		"engine":     {Values: []string{mathrender.NoneEngineName}},
		"png-engine": {Values: []string{gofont.Name, chrome.Name}},
		"style":      {Values: assets.DocumentStyles()},
		"config":     {FileGlob: "*.yaml,*.yml"},
		"css":        {FileGlob: "*.css"},
		"output":     {IsDir: true},
	}
}

// extractFlags builds flag definitions from fs, sorted by name.
func extractFlags(fs *flag.FlagSet) []flagDef {
	meta := flagCompletionMeta()
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if m, ok := meta[f.Name]; ok {
			switch {
			case len(m.Values) > 0:
				fd.Type = flagEnum
				fd.Values = m.Values
			case m.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = m.FileGlob
			case m.IsDir:
				fd.Type = flagDir
			}
		}
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry for completion. Convert flags
// come from the same registration as parseConvertFlags.
func getCommands() []commandDef {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	addConvertFlags(fs, &convertFlags{})

	return []commandDef{
		{Name: "convert", Desc: "Convert markdown files to HTML", Flags: extractFlags(fs), FilePattern: "*.md,*.markdown"},
		{Name: "engines", Desc: "List math engines"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command", Args: []string{"convert", "engines", "version", "completion"}},
		{Name: "completion", Desc: "Generate shell completion script", Args: supportedShells},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	case ShellPowerShell:
		script = generatePowerShell(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(supportedShells, ", "))
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: completion takes one shell name", ErrUsage)
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: maruku completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a completion script for bash, zsh, fish or powershell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:        eval \"$(maruku completion bash)\"          # ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:         eval \"$(maruku completion zsh)\"           # ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:        maruku completion fish > ~/.config/fish/completions/maruku.fish")
	fmt.Fprintln(w, "  PowerShell:  maruku completion powershell | Out-String | Invoke-Expression")
}

// ---------------------------------------------------------------------------
// bash
// ---------------------------------------------------------------------------

func generateBash(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# bash completion for maruku\n")
	b.WriteString("shopt -s extglob\n\n")
	b.WriteString("_maruku_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		if len(c.Flags) > 0 {
			b.WriteString("        case \"$prev\" in\n")
			for _, f := range c.Flags {
				if !f.takesValue() {
					continue
				}
				fmt.Fprintf(&b, "        %s)\n", strings.Join(flagSpellings(f), "|"))
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(f.Values, " "))
				case flagFile:
					fmt.Fprintf(&b, "            COMPREPLY=($(compgen -f -X '%s' -- \"$cur\"))\n", bashExclude(f.FileGlob))
				case flagDir:
					b.WriteString("            COMPREPLY=($(compgen -d -- \"$cur\"))\n")
				default:
					b.WriteString("            COMPREPLY=()\n")
				}
				b.WriteString("            return\n")
				b.WriteString("            ;;\n")
			}
			b.WriteString("        esac\n")
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(allSpellings(c.Flags), " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case c.FilePattern != "":
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -f -X '%s' -- \"$cur\") $(compgen -d -- \"$cur\"))\n", bashExclude(c.FilePattern))
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(c.Args, " "))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _maruku_completions maruku\n")
	return b.String()
}

// bashExclude turns "*.md,*.markdown" into the compgen -X pattern "!*.@(md|markdown)".
func bashExclude(globs string) string {
	var exts []string
	for _, g := range strings.Split(globs, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return "!*.@(" + strings.Join(exts, "|") + ")"
}

// ---------------------------------------------------------------------------
// zsh
// ---------------------------------------------------------------------------

func generateZsh(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef maruku\n\n")
	b.WriteString("_maruku() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"$words[1]\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		switch {
		case len(c.Flags) > 0 || c.FilePattern != "":
			specs := make([]string, 0, len(c.Flags)+1)
			for _, f := range c.Flags {
				specs = append(specs, zshFlagSpec(f))
			}
			if c.FilePattern != "" {
				specs = append(specs, "'*:file:_files -g \""+zshGlob(c.FilePattern)+"\"'")
			}
			b.WriteString("        _arguments \\\n            ")
			b.WriteString(strings.Join(specs, " \\\n            "))
			b.WriteString("\n")
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        _values '%s' %s\n", c.Name, strings.Join(c.Args, " "))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_maruku \"$@\"\n")
	return b.String()
}

func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscape(f.Desc) + "]"

	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"" + zshGlob(f.FileGlob) + "\""
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":value: "
	}

	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

// zshGlob turns "*.md,*.markdown" into "*.(md|markdown)".
func zshGlob(globs string) string {
	if !strings.Contains(globs, ",") {
		return globs
	}
	var exts []string
	for _, g := range strings.Split(globs, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

// ---------------------------------------------------------------------------
// fish
// ---------------------------------------------------------------------------

func generateFish(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for maruku\n\n")
	b.WriteString("function __fish_maruku_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_maruku_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c maruku -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c maruku -n __fish_maruku_needs_command -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range cmds {
		cond := fishQuote("__fish_maruku_using_command " + c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c maruku -n %s", cond)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long + " -d " + fishQuote(f.Desc)
			switch f.Type {
			case flagEnum:
				line += " -x -a " + fishQuote(strings.Join(f.Values, " "))
			case flagFile:
				var suffixes []string
				for _, g := range strings.Split(f.FileGlob, ",") {
					suffixes = append(suffixes, strings.TrimPrefix(strings.TrimSpace(g), "*"))
				}
				line += " -r -a " + fishQuote("(__fish_complete_suffix "+strings.Join(suffixes, " ")+")")
			case flagDir:
				line += " -x -a " + fishQuote("(__fish_complete_directories)")
			case flagString, flagInt:
				line += " -x"
			}
			b.WriteString(line + "\n")
		}
		switch {
		case c.FilePattern != "":
			fmt.Fprintf(&b, "complete -c maruku -n %s -F\n", cond)
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c maruku -n %s -a %s\n", cond, fishQuote(strings.Join(c.Args, " ")))
		}
	}
	return b.String()
}

func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

// ---------------------------------------------------------------------------
// powershell
// ---------------------------------------------------------------------------

func generatePowerShell(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# powershell completion for maruku\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName maruku -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psQuote(c.Desc))
	}
	b.WriteString("    }\n")

	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		quoted := make([]string, 0, len(c.Flags)*2)
		for _, s := range allSpellings(c.Flags) {
			quoted = append(quoted, psQuote(s))
		}
		fmt.Fprintf(&b, "        %s = @(%s)\n", psQuote(c.Name), strings.Join(quoted, ", "))
	}
	b.WriteString("    }\n")

	b.WriteString("    $values = @{\n")
	for _, c := range cmds {
		for _, f := range c.Flags {
			if f.Type != flagEnum {
				continue
			}
			vals := make([]string, len(f.Values))
			for i, v := range f.Values {
				vals[i] = psQuote(v)
			}
			for _, s := range flagSpellings(f) {
				fmt.Fprintf(&b, "        %s = @(%s)\n", psQuote(s), strings.Join(vals, ", "))
			}
		}
	}
	b.WriteString("    }\n")

	b.WriteString("    $commandArgs = @{\n")
	for _, c := range cmds {
		if len(c.Args) == 0 {
			continue
		}
		vals := make([]string, len(c.Args))
		for i, v := range c.Args {
			vals[i] = psQuote(v)
		}
		fmt.Fprintf(&b, "        %s = @(%s)\n", psQuote(c.Name), strings.Join(vals, ", "))
	}
	b.WriteString("    }\n\n")

	b.WriteString(`    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })
    if ($wordToComplete -ne '') {
        $elements = @($elements | Select-Object -SkipLast 1)
    }

    if ($elements.Count -le 1) {
        $commands.Keys | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $commands[$_])
        }
        return
    }

    $cmd = $elements[1]
    $prev = $elements[-1]
    if ($values.ContainsKey($prev)) {
        $values[$prev] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }
    if ($wordToComplete -like '-*' -and $flags.ContainsKey($cmd)) {
        $flags[$cmd] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)
        }
        return
    }
    if ($commandArgs.ContainsKey($cmd)) {
        $commandArgs[$cmd] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
    }
}
`)
	return b.String()
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// flagSpellings returns "--long" and, when present, "-s".
func flagSpellings(f flagDef) []string {
	if f.Short == "" {
		return []string{"--" + f.Long}
	}
	return []string{"--" + f.Long, "-" + f.Short}
}

func allSpellings(flags []flagDef) []string {
	var out []string
	for _, f := range flags {
		out = append(out, flagSpellings(f)...)
	}
	return out
}
