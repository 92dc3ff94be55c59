package dockerfile

import (
	"regexp"
)

// placeholder matches $$, $name and ${name}.
var placeholder = regexp.MustCompile(`\$(?:(\$)|([_a-zA-Z][_a-zA-Z0-9]*)|\{([_a-zA-Z][_a-zA-Z0-9]*)\})`)

// Substitute replaces $NAME and ${NAME} with values from env. Unknown names
// are left as they are and $$ becomes a single $.
func Substitute(s string, env map[string]string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		sub := placeholder.FindStringSubmatch(m)
		switch {
		case sub[1] != "":
			return "$"
		case sub[2] != "":
			if v, ok := env[sub[2]]; ok {
				return v
			}
		case sub[3] != "":
			if v, ok := env[sub[3]]; ok {
				return v
			}
		}
		return m
	})
}

func substituteAll(list []string, env map[string]string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = Substitute(s, env)
	}
	return out
}
