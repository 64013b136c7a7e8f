// pkg/reconcile/reconcile_test.go
// TEST TYPE: Business Logic Integration
// DEPENDENCIES: Real filesystem (temp dir), FailingFS
// PURPOSE: Test the link state table, merge rules and failure semantics

package reconcile_test

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/arthur-debert/dirlink/pkg/errors"
	"github.com/arthur-debert/dirlink/pkg/reconcile"
	"github.com/arthur-debert/dirlink/pkg/testutil"
	"github.com/arthur-debert/dirlink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReconciler(fsys types.FS) *reconcile.Reconciler {
	return reconcile.New(fsys, reconcile.Options{})
}

func assertLinked(t *testing.T, env *testutil.TestEnvironment, unit types.Unit) {
	t.Helper()
	require.True(t, env.IsSymlink(unit.Target), "target %s should be a symlink", unit.Target)
	assert.Equal(t, unit.Source, env.LinkDest(unit.Target))

	info, err := os.Stat(unit.Source)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "source should be a directory")
}

func TestReconcile_MissingTargetAndSource(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := types.Unit{
		Name:   "models",
		Target: filepath.Join(env.AppRoot, "nested", "ComfyUI", "models"),
		Source: filepath.Join(env.VolumeRoot, "models"),
	}

	result, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, types.StateMissing, result.State)
	assert.Equal(t, types.ActionCreateLink, result.Action)
	assert.Equal(t, types.OutcomeLinked, result.Outcome)
	assert.Equal(t, "created new link", result.Message)
	assertLinked(t, env, unit)
}

func TestReconcile_IdenticalFileCollapses(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	env.WithFileTree(unit.Target, testutil.FileTree{"a.txt": "X"})
	env.WithFileTree(unit.Source, testutil.FileTree{"a.txt": "X"})

	result, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, types.StateDirectory, result.State)
	assert.Equal(t, types.OutcomeLinked, result.Outcome)
	assert.Equal(t, "merged existing directory and linked", result.Message)
	assert.Equal(t, 1, result.Merge.Duplicates)
	assert.Empty(t, result.Merge.Conflicts)

	assertLinked(t, env, unit)
	assert.Equal(t, map[string]string{"a.txt": "X"}, env.Snapshot(unit.Source))
}

func TestReconcile_DifferentFileKeepsBoth(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	env.WithFileTree(unit.Target, testutil.FileTree{"a.txt": "X"})
	env.WithFileTree(unit.Source, testutil.FileTree{"a.txt": "Y"})

	result, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeLinked, result.Outcome)
	assert.Equal(t, []string{filepath.Join(unit.Source, "a.conflict")}, result.Merge.Conflicts)

	assertLinked(t, env, unit)
	assert.Equal(t, map[string]string{
		"a.txt":      "Y",
		"a.conflict": "X",
	}, env.Snapshot(unit.Source))
}

func TestReconcile_TargetIsFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("output")
	env.WriteFile(unit.Target, "not a directory")

	result, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err, "an incompatible target is a warning, not an error")

	assert.Equal(t, types.StateFile, result.State)
	assert.Equal(t, types.ActionLeaveIntact, result.Action)
	assert.Equal(t, types.OutcomeWarning, result.Outcome)
	assert.Equal(t, types.ReasonIncompatibleFile, result.Reason)
	assert.Equal(t, "warning: target is an incompatible existing file; not linked", result.Message)
	assert.False(t, result.Linked())

	assert.False(t, env.IsSymlink(unit.Target))
	assert.Equal(t, "not a directory", env.ReadFile(unit.Target))
}

func TestReconcile_Idempotent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("custom_nodes")
	env.WithFileTree(unit.Target, testutil.FileTree{
		"node-a": testutil.FileTree{"__init__.py": "a"},
	})

	_, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)
	before := env.Snapshot(env.Root)

	counting := testutil.NewFailingFS(env.FS)
	result, err := newReconciler(counting).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, types.StateLinked, result.State)
	assert.Equal(t, types.ActionNone, result.Action)
	assert.Equal(t, "already linked", result.Message)
	for _, op := range []string{"Symlink", "Remove", "RemoveAll", "Rename", "Create", "WriteFile"} {
		assert.Zero(t, counting.Calls(op), "second run should not call %s", op)
	}
	assert.Equal(t, before, env.Snapshot(env.Root))
}

func TestReconcile_StaleLinkIsReplaced(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	elsewhere := filepath.Join(env.VolumeRoot, "old-models")
	env.WithFileTree(elsewhere, testutil.FileTree{"keep.bin": "old"})
	env.Symlink(elsewhere, unit.Target)

	result, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, types.StateStaleLink, result.State)
	assert.Equal(t, types.ActionRelink, result.Action)
	assert.Equal(t, elsewhere, result.PrevLink)
	assert.Equal(t, "replaced stale link (was -> "+elsewhere+")", result.Message)
	assertLinked(t, env, unit)
	assert.Equal(t, "old", env.ReadFile(filepath.Join(elsewhere, "keep.bin")), "old link destination is left alone")
}

func TestReconcile_DanglingStaleLink(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("output")
	env.Symlink(filepath.Join(env.Root, "gone"), unit.Target)

	result, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, types.StateStaleLink, result.State)
	assertLinked(t, env, unit)
}

func TestReconcile_RelativeLinkToSourceIsLinked(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	env.Mkdir(unit.Source)
	env.Symlink(filepath.Join("..", "volumes", "models"), unit.Target)

	result, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, types.StateLinked, result.State)
	assert.Equal(t, filepath.Join("..", "volumes", "models"), env.LinkDest(unit.Target), "a correct link is not rewritten")
}

func TestReconcile_LinkedButSourceMissingRecreatesSource(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	env.Symlink(unit.Source, unit.Target)

	result, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, types.StateLinked, result.State)
	assertLinked(t, env, unit)
}

func TestReconcile_RecursiveMerge(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	env.WithFileTree(unit.Target, testutil.FileTree{
		"loras": testutil.FileTree{
			"same.safetensors":  "S",
			"mine.safetensors":  "M",
			"clash.safetensors": "target",
			"deep": testutil.FileTree{
				"x.bin": "x",
			},
		},
		"vae": testutil.FileTree{
			"v.pt": "v",
		},
		"readme.md": "hello",
	})
	env.WithFileTree(unit.Source, testutil.FileTree{
		"loras": testutil.FileTree{
			"same.safetensors":   "S",
			"theirs.safetensors": "T",
			"clash.safetensors":  "source",
			"deep":               testutil.FileTree{},
		},
	})

	result, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)
	assertLinked(t, env, unit)

	assert.Equal(t, map[string]string{
		"loras/same.safetensors":   "S",
		"loras/mine.safetensors":   "M",
		"loras/theirs.safetensors": "T",
		"loras/clash.safetensors":  "source",
		"loras/clash.conflict":     "target",
		"loras/deep/x.bin":         "x",
		"vae/v.pt":                 "v",
		"readme.md":                "hello",
	}, env.Snapshot(unit.Source))

	// loras and loras/deep merged; vae, readme.md, mine and x.bin moved
	assert.Equal(t, 2, result.Merge.Merged)
	assert.Equal(t, 4, result.Merge.Moved)
	assert.Equal(t, 1, result.Merge.Duplicates)
	assert.Len(t, result.Merge.Conflicts, 1)
}

func TestReconcile_TypeMismatchConflicts(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("custom_nodes")
	env.WithFileTree(unit.Target, testutil.FileTree{
		"node":     testutil.FileTree{"main.py": "code"},
		"cfg.json": "{}",
	})
	env.WithFileTree(unit.Source, testutil.FileTree{
		"node":     "a file named like the directory",
		"cfg.json": testutil.FileTree{"inner": "dir named like the file"},
	})

	result, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)
	assertLinked(t, env, unit)

	assert.Equal(t, map[string]string{
		"node":                      "a file named like the directory",
		"node.dir_conflict/main.py": "code",
		"cfg.json/inner":            "dir named like the file",
		"cfg.conflict":              "{}",
	}, env.Snapshot(unit.Source))
	assert.ElementsMatch(t, []string{
		filepath.Join(unit.Source, "node.dir_conflict"),
		filepath.Join(unit.Source, "cfg.conflict"),
	}, result.Merge.Conflicts)
}

func TestReconcile_ConflictNamesNeverOverwrite(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("output")
	env.WithFileTree(unit.Target, testutil.FileTree{"a.txt": "X"})
	env.WithFileTree(unit.Source, testutil.FileTree{
		"a.txt":      "Y",
		"a.conflict": "earlier artifact",
	})

	_, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"a.txt":        "Y",
		"a.conflict":   "earlier artifact",
		"a.conflict.1": "X",
	}, env.Snapshot(unit.Source))
}

func TestReconcile_CustomSuffixes(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("output")
	env.WithFileTree(unit.Target, testutil.FileTree{"a.txt": "X", "d": testutil.FileTree{"f": "1"}})
	env.WithFileTree(unit.Source, testutil.FileTree{"a.txt": "Y", "d": "file"})

	r := reconcile.New(env.FS, reconcile.Options{FileSuffix: ".mine", DirSuffix: ".mine-dir"})
	_, err := r.Reconcile(unit)
	require.NoError(t, err)

	snap := env.Snapshot(unit.Source)
	assert.Equal(t, "X", snap["a.mine"])
	assert.Equal(t, "1", snap["d.mine-dir/f"])
}

func TestReconcile_SymlinksInsideTargetAreMovedNotFollowed(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	outside := filepath.Join(env.Root, "outside")
	env.WithFileTree(outside, testutil.FileTree{"big.bin": "payload"})
	env.WithFileTree(unit.Target, testutil.FileTree{
		"linked": testutil.Link(outside),
	})

	_, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)

	assert.True(t, env.IsSymlink(filepath.Join(unit.Source, "linked")))
	assert.Equal(t, outside, env.LinkDest(filepath.Join(unit.Source, "linked")))
	assert.Equal(t, "payload", env.ReadFile(filepath.Join(outside, "big.bin")))
}

func TestReconcile_NoLoss(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	env.WithFileTree(unit.Target, testutil.FileTree{
		"a.txt":    "t-a",
		"b.txt":    "shared",
		"c":        testutil.FileTree{"c1": "t-c1", "c2": "t-c2"},
		"d":        testutil.FileTree{"d1": "t-d1"},
		"e.tar.gz": "t-e",
		".env":     "t-env",
	})
	env.WithFileTree(unit.Source, testutil.FileTree{
		"a.txt":    "s-a",
		"b.txt":    "shared",
		"c":        testutil.FileTree{"c1": "s-c1"},
		"d":        "s-d",
		"e.tar.gz": "s-e",
		".env":     "s-env",
	})

	originalTarget := env.Snapshot(unit.Target)
	originalSource := env.Snapshot(unit.Source)

	_, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)
	assertLinked(t, env, unit)

	final := env.Snapshot(unit.Source)
	contents := make(map[string]bool, len(final))
	for _, content := range final {
		contents[content] = true
	}
	for rel, content := range originalTarget {
		assert.True(t, contents[content], "target file %s (%q) was lost", rel, content)
	}
	for rel, content := range originalSource {
		assert.Equal(t, content, final[rel], "source file %s must not change", rel)
	}
	assert.Equal(t, "t-e", final["e.tar.conflict"])
	assert.Equal(t, "t-env", final[".env.conflict"])
}

func TestReconcile_CompareFailureKeepsBoth(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	env.WithFileTree(unit.Target, testutil.FileTree{"a.txt": "X"})
	env.WithFileTree(unit.Source, testutil.FileTree{"a.txt": "X"})

	fsys := testutil.NewFailingFS(env.FS).
		WithError("Open", filepath.Join(unit.Target, "a.txt"), fs.ErrPermission)

	result, err := newReconciler(fsys).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Merge.Duplicates)
	assert.Equal(t, map[string]string{
		"a.txt":      "X",
		"a.conflict": "X",
	}, env.Snapshot(unit.Source))
}

func TestReconcile_CompareCapKeepsLargeFiles(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	env.WithFileTree(unit.Target, testutil.FileTree{"big.bin": "0123456789"})
	env.WithFileTree(unit.Source, testutil.FileTree{"big.bin": "0123456789"})

	r := reconcile.New(env.FS, reconcile.Options{CompareMaxBytes: 4})
	result, err := r.Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Merge.Duplicates)
	assert.Len(t, result.Merge.Conflicts, 1)
	assert.Equal(t, "0123456789", env.ReadFile(filepath.Join(unit.Source, "big.conflict")))
}

func TestReconcile_FatalMoveErrorPropagates(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	env.WithFileTree(unit.Target, testutil.FileTree{"a.txt": "X"})

	fsys := testutil.NewFailingFS(env.FS).
		WithError("Rename", filepath.Join(unit.Target, "a.txt"), fs.ErrPermission)

	_, err := newReconciler(fsys).Reconcile(unit)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileMove))
	assert.True(t, stderrors.Is(err, fs.ErrPermission))

	assert.Equal(t, "X", env.ReadFile(filepath.Join(unit.Target, "a.txt")), "nothing is lost on failure")
	assert.False(t, env.IsSymlink(unit.Target))
}

func TestReconcile_SymlinkFailurePropagates(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("output")

	fsys := testutil.NewFailingFS(env.FS).WithError("Symlink", unit.Target, fs.ErrPermission)

	_, err := newReconciler(fsys).Reconcile(unit)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSymlinkCreate))
}

// lateWriterFS drops a new file into dir right after the first listing of
// dir, like an external process writing during startup
type lateWriterFS struct {
	types.FS
	dir  string
	done bool
}

func (l *lateWriterFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := l.FS.ReadDir(name)
	if err == nil && !l.done && filepath.Clean(name) == l.dir {
		l.done = true
		err = l.FS.WriteFile(filepath.Join(l.dir, "late.txt"), []byte("late"), 0644)
	}
	return entries, err
}

func TestReconcile_TargetNotEmptied(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("output")
	env.WithFileTree(unit.Target, testutil.FileTree{"img.png": "png"})

	fsys := &lateWriterFS{FS: env.FS, dir: unit.Target}
	result, err := newReconciler(fsys).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeWarning, result.Outcome)
	assert.Equal(t, types.ReasonNotEmptied, result.Reason)
	assert.Equal(t, "warning: target could not be fully emptied; not linked", result.Message)

	assert.False(t, env.IsSymlink(unit.Target))
	assert.Equal(t, "late", env.ReadFile(filepath.Join(unit.Target, "late.txt")), "entries created during the merge are not visited")
	assert.Equal(t, "png", env.ReadFile(filepath.Join(unit.Source, "img.png")))
}

// exdevFS makes every rename fail like a move across mount points
type exdevFS struct {
	types.FS
}

func (e exdevFS) Rename(oldpath, newpath string) error {
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
}

func TestReconcile_CrossDeviceMerge(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("custom_nodes")
	env.WithFileTree(unit.Target, testutil.FileTree{
		"node-a": testutil.FileTree{"__init__.py": "a", "js": testutil.FileTree{"ui.js": "ui"}},
		"b.txt":  "X",
	})
	env.WithFileTree(unit.Source, testutil.FileTree{"b.txt": "Y"})

	_, err := newReconciler(exdevFS{FS: env.FS}).Reconcile(unit)
	require.NoError(t, err)
	assertLinked(t, env, unit)

	assert.Equal(t, map[string]string{
		"node-a/__init__.py": "a",
		"node-a/js/ui.js":    "ui",
		"b.txt":              "Y",
		"b.conflict":         "X",
	}, env.Snapshot(unit.Source))
}

func TestReconcile_SubdirsEnsuredAfterLink(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	unit.Subdirs = []string{"checkpoints", "loras"}

	_, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)

	for _, sub := range unit.Subdirs {
		info, err := os.Stat(filepath.Join(unit.Target, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestReconcile_InvalidUnits(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	tests := []struct {
		name string
		unit types.Unit
	}{
		{"same path", types.Unit{Name: "x", Target: env.AppRoot, Source: env.AppRoot}},
		{"source inside target", types.Unit{Name: "x", Target: env.AppRoot, Source: filepath.Join(env.AppRoot, "vol")}},
		{"empty source", types.Unit{Name: "x", Target: env.AppRoot}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newReconciler(env.FS).Reconcile(tt.unit)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrUnitInvalid))
		})
	}
}

func TestPlan_DoesNotMutate(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	dirUnit := env.Unit("models")
	env.WithFileTree(dirUnit.Target, testutil.FileTree{"a.txt": "X"})
	missingUnit := env.Unit("output")
	staleUnit := env.Unit("custom_nodes")
	env.Symlink(env.Root, staleUnit.Target)

	counting := testutil.NewFailingFS(env.FS)
	r := newReconciler(counting)

	tests := []struct {
		unit    types.Unit
		state   types.TargetState
		message string
	}{
		{dirUnit, types.StateDirectory, "would merge existing directory and link"},
		{missingUnit, types.StateMissing, "would create new link"},
		{staleUnit, types.StateStaleLink, "would replace stale link (was -> " + env.Root + ")"},
	}
	for _, tt := range tests {
		result, err := r.Plan(tt.unit)
		require.NoError(t, err)
		assert.Equal(t, tt.state, result.State)
		assert.Equal(t, types.OutcomePlanned, result.Outcome)
		assert.Equal(t, tt.message, result.Message)
	}

	assert.Zero(t, counting.MutatingCalls())
	assert.Equal(t, "X", env.ReadFile(filepath.Join(dirUnit.Target, "a.txt")))
	assert.False(t, env.Exists(dirUnit.Source))
}

func TestReconcile_DryRunOption(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")

	r := reconcile.New(env.FS, reconcile.Options{DryRun: true})
	result, err := r.Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, types.OutcomePlanned, result.Outcome)
	assert.False(t, env.Exists(unit.Target))
	assert.False(t, env.Exists(unit.Source))
}

func TestReconcileAll_WarningsDoNotStopTheRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	fileUnit := env.Unit("models")
	env.WriteFile(fileUnit.Target, "blocking file")
	okUnit := env.Unit("output")

	summary, err := newReconciler(env.FS).ReconcileAll(context.Background(), []types.Unit{fileUnit, okUnit})
	require.NoError(t, err)

	require.Len(t, summary.Results, 2)
	assert.Equal(t, types.OutcomeWarning, summary.Results[0].Outcome)
	assert.Equal(t, types.OutcomeLinked, summary.Results[1].Outcome)
	assert.Equal(t, 1, summary.Linked)
	assert.Equal(t, 1, summary.Warnings)
	assertLinked(t, env, okUnit)
}

func TestReconcileAll_FatalErrorStopsTheRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	first := env.Unit("models")
	broken := env.Unit("custom_nodes")
	env.WithFileTree(broken.Target, testutil.FileTree{"node": "x"})
	last := env.Unit("output")

	fsys := testutil.NewFailingFS(env.FS).
		WithError("Rename", filepath.Join(broken.Target, "node"), fs.ErrPermission)

	summary, err := newReconciler(fsys).ReconcileAll(context.Background(), []types.Unit{first, broken, last})
	require.Error(t, err)

	assert.Equal(t, "custom_nodes", errors.GetErrorDetails(err)["unit"])
	require.Len(t, summary.Results, 1, "only units before the failure are reported")
	assertLinked(t, env, first)
	assert.False(t, env.Exists(last.Target), "units after a fatal error are not touched")
}

func TestReconcileAll_Canceled(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newReconciler(env.FS).ReconcileAll(ctx, []types.Unit{env.Unit("models")})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCanceled))
	assert.Empty(t, summary.Results)
}

func TestReconcile_LinkedTargetWithTrailingSlash(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	env.WithFileTree(unit.Source, testutil.FileTree{"a.txt": "X"})
	env.Symlink(unit.Source, unit.Target)

	slashed := unit
	slashed.Target += "/"

	result, err := newReconciler(env.FS).Reconcile(slashed)
	require.NoError(t, err)

	assert.Equal(t, types.StateLinked, result.State)
	assert.Equal(t, "already linked", result.Message)
	assert.Equal(t, unit.Target, result.Unit.Target)
	assert.Zero(t, result.Merge.Duplicates)

	assertLinked(t, env, unit)
	assert.Equal(t, map[string]string{"a.txt": "X"}, env.Snapshot(unit.Source))
}

func TestReconcile_SourceAliasOfTargetIsRejected(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("output")
	env.WithFileTree(unit.Target, testutil.FileTree{
		"img.png": "PNG",
		"run":     testutil.FileTree{"log.txt": "L"},
	})
	// Source path reaches the Target directory through a link
	env.Symlink(unit.Target, unit.Source)

	for name, run := range map[string]func(types.Unit) (types.Result, error){
		"reconcile": newReconciler(env.FS).Reconcile,
		"plan":      newReconciler(env.FS).Plan,
	} {
		t.Run(name, func(t *testing.T) {
			result, err := run(unit)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrUnitInvalid))
			assert.Equal(t, "output", errors.GetErrorDetails(err)["unit"])
			assert.Equal(t, types.StateDirectory, result.State)
			assert.NotEqual(t, types.OutcomeLinked, result.Outcome)

			assert.False(t, env.IsSymlink(unit.Target))
			assert.True(t, env.IsSymlink(unit.Source))
			assert.Equal(t, map[string]string{
				"img.png":     "PNG",
				"run/log.txt": "L",
			}, env.Snapshot(unit.Target))
		})
	}
}

func TestReconcileAll_SourceAliasStopsTheRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	alias := env.Unit("output")
	env.WithFileTree(alias.Target, testutil.FileTree{"img.png": "PNG"})
	env.Symlink(alias.Target, alias.Source)
	later := env.Unit("models")

	summary, err := newReconciler(env.FS).ReconcileAll(context.Background(), []types.Unit{alias, later})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnitInvalid))
	assert.Empty(t, summary.Results)
	assert.False(t, env.Exists(later.Target))
	assert.Equal(t, "PNG", env.ReadFile(filepath.Join(alias.Target, "img.png")))
}

func TestReconcile_HardlinkedEntryIsNotRemoved(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	unit := env.Unit("models")
	env.WithFileTree(unit.Source, testutil.FileTree{"a.txt": "X"})
	env.Mkdir(unit.Target)
	require.NoError(t, os.Link(filepath.Join(unit.Source, "a.txt"), filepath.Join(unit.Target, "a.txt")))

	result, err := newReconciler(env.FS).Reconcile(unit)
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeWarning, result.Outcome)
	assert.Equal(t, types.ReasonNotEmptied, result.Reason)
	assert.Zero(t, result.Merge.Duplicates)
	assert.Equal(t, []string{filepath.Join(unit.Target, "a.txt")}, result.Merge.Leftovers)

	assert.Equal(t, "X", env.ReadFile(filepath.Join(unit.Target, "a.txt")))
	assert.Equal(t, "X", env.ReadFile(filepath.Join(unit.Source, "a.txt")))
}
