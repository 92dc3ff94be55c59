package extension

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devc/pkg/document"
	"devc/pkg/interact"
)

const (
	pointCommand = "t.command"
	pointPlugins = "t.plugins"
	pointAddons  = "t.addons"
)

type fixture struct {
	reg    *Registry
	root   *cobra.Command
	tree   *Tree
	runner *runnerExt
}

func newFixture(t *testing.T, addons ...Descriptor) *fixture {
	t.Helper()
	f := &fixture{
		reg: NewRegistry(),
		runner: &runnerExt{fakeExt: fakeExt{args: []Argument{
			{Name: "name", Kind: KindString, Prompt: "Project name"},
		}}},
	}
	for _, p := range []string{pointCommand, pointPlugins, pointAddons} {
		require.NoError(t, f.reg.DefinePoint(p, ""))
	}
	require.NoError(t, f.reg.Register(pointCommand, Descriptor{
		Name:        "gen",
		Description: "generate",
		Factory:     factoryOf(&commandExt{sub: pointPlugins, addon: pointAddons}),
	}))
	require.NoError(t, f.reg.Register(pointCommand, Descriptor{
		Name:    "secret",
		Hidden:  true,
		Factory: factoryOf(&fakeExt{}),
	}))
	require.NoError(t, f.reg.Register(pointPlugins, Descriptor{Name: "base", Factory: factoryOf(f.runner)}))
	for _, d := range addons {
		require.NoError(t, f.reg.Register(pointAddons, d))
	}

	f.root = &cobra.Command{Use: "devc", SilenceUsage: true, SilenceErrors: true}
	f.root.PersistentFlags().String("config-file", "", "")
	tree, err := NewTree(f.reg, f.root, pointCommand, nil)
	require.NoError(t, err)
	f.tree = tree
	return f
}

func (f *fixture) execute(t *testing.T, argv ...string) error {
	t.Helper()
	require.NoError(t, f.tree.Prepare(argv))
	f.root.SetArgs(argv)
	f.root.SetOut(&bytes.Buffer{})
	return f.root.ExecuteContext(context.Background())
}

func privileged() Descriptor {
	return Descriptor{Name: "privileged", Description: "run privileged", Factory: factoryOf(&fakeExt{
		args:   []Argument{{Name: "privileged", Kind: KindBool, Prompt: "Run privileged?"}},
		update: document.Document{"runArgs": []any{"--privileged"}},
	})}
}

// ── mounting ───────────────────────────────────────────────────────

func TestTree_StubsAreLazy(t *testing.T) {
	calls := 0
	f := newFixture(t)
	require.NoError(t, f.reg.Register(pointCommand, Descriptor{Name: "lazy", Factory: func() (Extension, error) {
		calls++
		return &fakeExt{}, nil
	}}))
	tree, err := NewTree(f.reg, &cobra.Command{Use: "other"}, pointCommand, nil)
	require.NoError(t, err)

	assert.Len(t, tree.Root().Children(), 3)
	assert.Equal(t, 0, calls)
	assert.False(t, tree.Root().Child("lazy").Mounted())
}

func TestTree_PrepareMountsPath(t *testing.T) {
	f := newFixture(t, privileged())
	require.NoError(t, f.tree.Prepare([]string{"--config-file", "x.yaml", "gen", "--privileged", "base"}))

	gen := f.tree.Root().Child("gen")
	require.True(t, gen.Mounted())
	require.NotNil(t, gen.Addons)
	assert.True(t, gen.Child("base").Mounted())
	assert.NotNil(t, gen.Cmd.PersistentFlags().Lookup("privileged"))
}

func TestTree_PrepareSkipsFlagValues(t *testing.T) {
	f := newFixture(t, Descriptor{Name: "label", Factory: factoryOf(&fakeExt{
		args: []Argument{{Name: "label", Shorthand: "l", Kind: KindString}},
	})})
	require.NoError(t, f.reg.Register(pointPlugins, Descriptor{Name: "other", Factory: factoryOf(&fakeExt{})}))

	require.NoError(t, f.execute(t, "--config-file", "gen", "gen", "--label", "other", "base", "--name", "base"))

	gen := f.tree.Root().Child("gen")
	require.True(t, gen.Mounted())
	assert.True(t, gen.Child("base").Mounted())
	assert.False(t, gen.Child("other").Mounted())
	require.NotNil(t, f.runner.ran)
	assert.Equal(t, "other", f.runner.ran.Values.String("label"))
	assert.Equal(t, "base", f.runner.ran.Values.String("name"))
}

func TestTree_PrepareSkipsShorthandValues(t *testing.T) {
	f := newFixture(t, Descriptor{Name: "label", Factory: factoryOf(&fakeExt{
		args: []Argument{{Name: "label", Shorthand: "l", Kind: KindString}},
	})})
	require.NoError(t, f.reg.Register(pointPlugins, Descriptor{Name: "other", Factory: factoryOf(&fakeExt{})}))

	require.NoError(t, f.tree.Prepare([]string{"gen", "-l", "other", "base"}))

	gen := f.tree.Root().Child("gen")
	assert.True(t, gen.Child("base").Mounted())
	assert.False(t, gen.Child("other").Mounted())
}

func TestTree_RunPassesInheritedValues(t *testing.T) {
	f := newFixture(t, privileged())
	require.NoError(t, f.execute(t, "gen", "--privileged", "base", "--name=demo"))

	rc := f.runner.ran
	require.NotNil(t, rc)
	assert.Equal(t, "base", rc.Name)
	assert.Equal(t, "demo", rc.Values.String("name"))
	assert.True(t, rc.Values.Bool("privileged"))

	doc, err := rc.Addons.CombinedUpdates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, document.Document{"runArgs": []any{"--privileged"}}, doc)
}

func TestTree_UnknownSubcommand(t *testing.T) {
	f := newFixture(t)
	err := f.execute(t, "gen", "nope")
	assert.ErrorContains(t, err, `unknown subcommand "nope"`)
}

func TestTree_AddonLoadFailureIsSkipped(t *testing.T) {
	f := newFixture(t, privileged(), Descriptor{Name: "broken", Factory: failingFactory("boom")})
	var failed []string
	f.tree.OnLoadFailure(func(point string, lf LoadFailure) {
		failed = append(failed, point+"/"+lf.Name)
	})

	require.NoError(t, f.tree.Root().Child("gen").Mount())
	assert.Equal(t, []string{pointAddons + "/broken"}, failed)
	assert.Len(t, f.tree.Root().Child("gen").Addons.Instances(), 1)
}

func TestTree_AddonCollidingWithCommandFlag(t *testing.T) {
	f := newFixture(t, Descriptor{Name: "clash", Factory: factoryOf(&fakeExt{
		args: []Argument{{Name: "config-file"}},
	})})
	err := f.tree.Root().Child("gen").Mount()
	var regErr *RegistrationError
	assert.True(t, errors.As(err, &regErr))
}

// ── interactive composition ────────────────────────────────────────

func TestCompose_NoExtensions(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.DefinePoint(pointCommand, ""))
	root := &cobra.Command{Use: "devc"}
	tree, err := NewTree(reg, root, pointCommand, nil)
	require.NoError(t, err)

	p := interact.NewScripted()
	argv, err := tree.Compose(context.Background(), p)
	require.NoError(t, err)
	assert.Nil(t, argv)
	assert.Empty(t, p.Asked)
	assert.False(t, root.HasSubCommands())
}

func TestCompose_FullFlow(t *testing.T) {
	f := newFixture(t, privileged())
	p := interact.NewScripted("gen", "base", "demo", "privileged", "true")

	argv, err := f.tree.Compose(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"gen", "base", "--name=demo", "--privileged"}, argv)
	assert.Equal(t, []string{
		"Select a command:",
		"Select a gen plugin:",
		"Project name",
		"Select extensions to enable:",
		"Run privileged?",
	}, p.Asked)

	require.NoError(t, f.execute(t, argv...))
	require.NotNil(t, f.runner.ran)
	assert.Equal(t, "demo", f.runner.ran.Values.String("name"))
	assert.True(t, f.runner.ran.Addons.Called().Has("privileged"))
}

func TestCompose_EmptySubSelectionAborts(t *testing.T) {
	f := newFixture(t)
	argv, err := f.tree.Compose(context.Background(), interact.NewScripted("gen", ""))
	require.NoError(t, err)
	assert.Nil(t, argv)
}

func TestCompose_NoAddonsPicked(t *testing.T) {
	f := newFixture(t, privileged())
	argv, err := f.tree.Compose(context.Background(), interact.NewScripted("gen", "base", "", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"gen", "base"}, argv)
}

func TestCompose_Interrupt(t *testing.T) {
	f := newFixture(t, privileged())
	_, err := f.tree.Compose(context.Background(), interact.NewScripted("gen", interact.Interrupt))
	assert.True(t, errors.Is(err, interact.ErrInterrupted))
}

func TestCompose_PrompterOverridesArguments(t *testing.T) {
	f := newFixture(t, Descriptor{Name: "custom", Factory: factoryOf(&promptExt{argv: []string{"--custom=x"}})})
	argv, err := f.tree.Compose(context.Background(), interact.NewScripted("gen", "base", "", "custom"))
	require.NoError(t, err)
	assert.Equal(t, []string{"gen", "base", "--custom=x"}, argv)
}
