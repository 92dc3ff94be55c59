package extension

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Kind selects how an argument parses and how it is asked interactively.
type Kind int

const (
	KindString Kind = iota
	KindPath
	KindBool
	KindChoice
	KindStrings
)

// Argument declares one command-line flag together with its interactive
// question. The same declaration drives parsing and prompting.
type Argument struct {
	Name      string
	Shorthand string
	Kind      Kind
	Usage     string
	// Default is reported when the flag is not given. A nil Default leaves
	// the argument unset, which keeps its owner from being invoked.
	Default any
	// NoOptDefault is the value used when the flag is given without one.
	NoOptDefault string
	Choices      []string
	Required     bool
	Validate     func(string) error
	// Prompt is the interactive question. Arguments without one are not asked.
	Prompt string
}

// ArgumentSet binds Arguments into a pflag.FlagSet. Sets form a chain that
// mirrors cobra's persistent flag inheritance.
type ArgumentSet struct {
	flags  *pflag.FlagSet
	parent *ArgumentSet
	args   map[string]*boundArgument
	order  []string
}

type boundArgument struct {
	arg   Argument
	owner string
	value *argValue
}

// NewArgumentSet wraps flags. parent may be nil.
func NewArgumentSet(flags *pflag.FlagSet, parent *ArgumentSet) *ArgumentSet {
	return &ArgumentSet{flags: flags, parent: parent, args: make(map[string]*boundArgument)}
}

// Flags returns the wrapped flag set.
func (s *ArgumentSet) Flags() *pflag.FlagSet {
	return s.flags
}

// Owner returns the extension that introduced name in this set or an ancestor.
func (s *ArgumentSet) Owner(name string) (string, bool) {
	if b, ok := s.lookup(name); ok {
		return b.owner, true
	}
	return "", false
}

func (s *ArgumentSet) lookup(name string) (*boundArgument, bool) {
	for set := s; set != nil; set = set.parent {
		if b, ok := set.args[name]; ok {
			return b, true
		}
	}
	return nil, false
}

func (s *ArgumentSet) taken(name string) bool {
	for set := s; set != nil; set = set.parent {
		if set.flags.Lookup(name) != nil {
			return true
		}
	}
	return false
}

func (s *ArgumentSet) shorthandTaken(short string) bool {
	for set := s; set != nil; set = set.parent {
		if set.flags.ShorthandLookup(short) != nil {
			return true
		}
	}
	return false
}

// Add registers args on behalf of owner and returns the names introduced.
// All arguments are checked before any flag is defined, so a failed Add
// leaves the flag set untouched.
func (s *ArgumentSet) Add(owner string, args ...Argument) ([]string, error) {
	seen := make(map[string]bool, len(args))
	for _, a := range args {
		if err := s.check(owner, a, seen); err != nil {
			return nil, err
		}
		seen[a.Name] = true
	}

	names := make([]string, 0, len(args))
	for _, a := range args {
		s.define(owner, a)
		names = append(names, a.Name)
	}
	return names, nil
}

func (s *ArgumentSet) check(owner string, a Argument, seen map[string]bool) error {
	fail := func(format string, v ...any) error {
		return &RegistrationError{Extension: owner, Argument: a.Name, Reason: fmt.Sprintf(format, v...)}
	}
	switch {
	case a.Name == "" || strings.HasPrefix(a.Name, "-"):
		return fail("invalid argument name")
	case a.Name == "help":
		return fail("name is reserved")
	case seen[a.Name]:
		return fail("declared twice")
	case len(a.Shorthand) > 1:
		return fail("shorthand %q must be a single character", a.Shorthand)
	case a.Kind == KindChoice && len(a.Choices) == 0:
		return fail("choice argument without choices")
	}
	if b, ok := s.lookup(a.Name); ok {
		return fail("already registered by %q", b.owner)
	}
	if s.taken(a.Name) {
		return fail("flag already defined")
	}
	if a.Shorthand != "" && s.shorthandTaken(a.Shorthand) {
		return fail("shorthand -%s already defined", a.Shorthand)
	}
	if a.Kind == KindChoice {
		for _, v := range []string{a.NoOptDefault, stringDefault(a.Default)} {
			if v != "" && !contains(a.Choices, v) {
				return fail("default %q is not one of %s", v, strings.Join(a.Choices, ", "))
			}
		}
	}
	if err := checkDefaultType(a); err != nil {
		return fail("%v", err)
	}
	return nil
}

func (s *ArgumentSet) define(owner string, a Argument) {
	v := &argValue{arg: a}
	usage := a.Usage
	if a.Kind == KindChoice {
		usage = fmt.Sprintf("%s (choices: %s)", usage, strings.Join(a.Choices, ", "))
	}
	flag := s.flags.VarPF(v, a.Name, a.Shorthand, usage)
	switch {
	case a.Kind == KindBool:
		flag.NoOptDefVal = "true"
	case a.NoOptDefault != "":
		flag.NoOptDefVal = a.NoOptDefault
	}
	flag.DefValue = displayDefault(a.Default)
	if a.Required {
		_ = cobra.MarkFlagRequired(s.flags, a.Name)
	}
	s.args[a.Name] = &boundArgument{arg: a, owner: owner, value: v}
	s.order = append(s.order, a.Name)
}

// Values reports every argument visible from this set. A flag given on the
// command line reports its parsed value, any other reports its Default.
func (s *ArgumentSet) Values() Values {
	var chain []*ArgumentSet
	for set := s; set != nil; set = set.parent {
		chain = append([]*ArgumentSet{set}, chain...)
	}
	vals := Values{values: make(map[string]any), changed: make(map[string]bool)}
	for _, set := range chain {
		for _, name := range set.order {
			b := set.args[name]
			if f := set.flags.Lookup(name); f != nil && f.Changed {
				vals.values[name] = b.value.get()
				vals.changed[name] = true
				continue
			}
			vals.values[name] = copyDefault(b.arg.Default)
		}
	}
	return vals
}

// argValue is the pflag.Value behind every Argument.
type argValue struct {
	arg  Argument
	str  string
	b    bool
	list []string
}

func (v *argValue) Set(s string) error {
	switch v.arg.Kind {
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", s)
		}
		v.b = b
		return nil
	case KindStrings:
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if v.arg.Validate != nil {
				if err := v.arg.Validate(part); err != nil {
					return err
				}
			}
			v.list = append(v.list, part)
		}
		return nil
	case KindChoice:
		if !contains(v.arg.Choices, s) {
			return fmt.Errorf("invalid choice %q (choose from %s)", s, strings.Join(v.arg.Choices, ", "))
		}
	}
	if v.arg.Validate != nil {
		if err := v.arg.Validate(s); err != nil {
			return err
		}
	}
	v.str = s
	return nil
}

func (v *argValue) String() string {
	if v == nil {
		return ""
	}
	switch v.arg.Kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindStrings:
		return strings.Join(v.list, ",")
	}
	return v.str
}

func (v *argValue) Type() string {
	if v == nil {
		return "string"
	}
	switch v.arg.Kind {
	case KindBool:
		return "bool"
	case KindStrings:
		return "strings"
	}
	return "string"
}

func (v *argValue) IsBoolFlag() bool {
	return v != nil && v.arg.Kind == KindBool
}

func (v *argValue) get() any {
	switch v.arg.Kind {
	case KindBool:
		return v.b
	case KindStrings:
		out := make([]string, len(v.list))
		copy(out, v.list)
		return out
	}
	return v.str
}

// Values holds parsed argument values by flag name.
type Values struct {
	values  map[string]any
	changed map[string]bool
}

// NewValues builds Values directly. Names listed in changed are reported as
// given on the command line.
func NewValues(values map[string]any, changed ...string) Values {
	v := Values{values: make(map[string]any, len(values)), changed: make(map[string]bool, len(changed))}
	for k, e := range values {
		v.values[k] = e
	}
	for _, c := range changed {
		v.changed[c] = true
	}
	return v
}

// Get returns the raw value, nil when unset.
func (v Values) Get(name string) any { return v.values[name] }

// IsSet reports whether name holds a non-nil value.
func (v Values) IsSet(name string) bool { return v.values[name] != nil }

// Changed reports whether name was given on the command line.
func (v Values) Changed(name string) bool { return v.changed[name] }

// String returns a string value, or "" when unset or not a string.
func (v Values) String(name string) string {
	s, _ := v.values[name].(string)
	return s
}

// Bool returns a bool value, or false when unset.
func (v Values) Bool(name string) bool {
	b, _ := v.values[name].(bool)
	return b
}

// Strings returns a list value, or nil when unset.
func (v Values) Strings(name string) []string {
	l, _ := v.values[name].([]string)
	return l
}

// Names returns every known name, sorted.
func (v Values) Names() []string {
	out := make([]string, 0, len(v.values))
	for k := range v.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func checkDefaultType(a Argument) error {
	if a.Default == nil {
		return nil
	}
	switch a.Kind {
	case KindBool:
		if _, ok := a.Default.(bool); !ok {
			return fmt.Errorf("default must be a bool, got %T", a.Default)
		}
	case KindStrings:
		if _, ok := a.Default.([]string); !ok {
			return fmt.Errorf("default must be a []string, got %T", a.Default)
		}
	default:
		if _, ok := a.Default.(string); !ok {
			return fmt.Errorf("default must be a string, got %T", a.Default)
		}
	}
	return nil
}

func stringDefault(def any) string {
	s, _ := def.(string)
	return s
}

func displayDefault(def any) string {
	switch d := def.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(d, ",")
	}
	return fmt.Sprint(def)
}

func copyDefault(def any) any {
	if l, ok := def.([]string); ok {
		out := make([]string, len(l))
		copy(out, l)
		return out
	}
	return def
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
