package gofont

import (
	"regexp"
	"strings"
)

var commandPattern = regexp.MustCompile(`\\([A-Za-z]+|[,;:! ])`)

// symbols maps TeX commands to the characters drawn for them. Go Regular
// covers Greek and the common operators.
var symbols = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ε",
	"zeta": "ζ", "eta": "η", "theta": "θ", "iota": "ι", "kappa": "κ",
	"lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ", "pi": "π", "rho": "ρ",
	"sigma": "σ", "tau": "τ", "upsilon": "υ", "phi": "φ", "chi": "χ",
	"psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ",
	"Pi": "Π", "Sigma": "Σ", "Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",

	"sum": "∑", "prod": "∏", "int": "∫", "infty": "∞", "partial": "∂",
	"nabla": "∇", "sqrt": "√", "cdot": "·", "times": "×", "div": "÷",
	"pm": "±", "mp": "∓", "leq": "≤", "le": "≤", "geq": "≥", "ge": "≥",
	"neq": "≠", "ne": "≠", "approx": "≈", "equiv": "≡", "sim": "∼",
	"in": "∈", "notin": "∉", "subset": "⊂", "supset": "⊃", "cup": "∪",
	"cap": "∩", "forall": "∀", "exists": "∃", "emptyset": "∅",
	"to": "→", "rightarrow": "→", "leftarrow": "←", "Rightarrow": "⇒",
	"Leftarrow": "⇐", "iff": "⇔", "ldots": "…", "cdots": "⋯", "dots": "…",
	"langle": "⟨", "rangle": "⟩",

	",": " ", ";": " ", ":": " ", " ": " ", "!": "",
	"quad": "  ", "qquad": "    ",
	"left": "", "right": "", "mathrm": "", "mathbf": "", "mathit": "",
	"text": "", "frac": "",
}

var grouping = strings.NewReplacer("{", "", "}", "", "^", "", "_", "", "&", " ", `\\`, " ")

// Text converts TeX source into the plain string drawn by the engine.
// Unknown commands keep their name without the backslash.
func Text(tex string) string {
	s := strings.ReplaceAll(strings.TrimSpace(tex), `\\`, " ")
	s = commandPattern.ReplaceAllStringFunc(s, func(cmd string) string {
		if sym, ok := symbols[cmd[1:]]; ok {
			return sym
		}
		return cmd[1:]
	})
	s = grouping.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
