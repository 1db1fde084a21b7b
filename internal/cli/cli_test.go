package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/splice/internal/codec"
	"github.com/roach88/splice/internal/diff"
	"github.com/roach88/splice/internal/meta"
	"github.com/roach88/splice/internal/schema"
	"github.com/roach88/splice/internal/store"
	tu "github.com/roach88/splice/internal/testutil"
)

type result struct {
	stdout string
	stderr string
	code   int
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	return runWithInput(t, "", args...)
}

func runWithInput(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return result{stdout: out.String(), stderr: errOut.String(), code: code}
}

func writeDoc(t *testing.T, dir, name string, doc schema.Composition) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, codec.WriteFile(path, doc))
	return path
}

func decodeJSON(t *testing.T, s string) schema.Composition {
	t.Helper()
	doc, err := codec.Unmarshal([]byte(s), codec.FormatJSON)
	require.NoError(t, err, s)
	return doc
}

// occlusion is the two-track cut whose top track has a gap over frames
// 5-10.
func occlusion(t *testing.T) *schema.Timeline {
	return tu.Timeline("occlusion",
		tu.Track(t, "top", tu.Clip("A", 0, 5), tu.Transition("X", 1, 1), tu.Gap(5)),
		tu.Track(t, "bottom", tu.Clip("B", 0, 10)),
	)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "splice", cmd.Use)

	commands := []string{"cat", "stack", "flatten", "strip-transitions", "trim", "diff", "clips", "media", "unlink", "relink", "copy-media", "snapshot"}
	for _, name := range commands {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	for _, name := range []string{"save", "list", "show", "rm"} {
		sub, _, err := cmd.Find([]string{"snapshot", name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	out := cmd.PersistentFlags().Lookup("out")
	require.NotNil(t, out)
	assert.Equal(t, "o", out.Shorthand)

	for _, name := range []string{"config", "db", "output-format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestCat_ConvertsAndCombines(t *testing.T) {
	dir := t.TempDir()
	one := writeDoc(t, dir, "one.json", tu.Timeline("one", tu.Track(t, "V1", tu.Clip("A", 0, 5))))
	two := writeDoc(t, dir, "two.yaml", tu.Timeline("two"))

	r := run(t, "cat", one, "--output-format", "yaml")
	require.Equal(t, 0, r.code, r.stderr)
	back, err := codec.Unmarshal([]byte(r.stdout), codec.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "one", back.(*schema.Timeline).Name)

	r = run(t, "cat", one, two)
	require.Equal(t, 0, r.code, r.stderr)
	coll := decodeJSON(t, r.stdout).(*schema.Collection)
	require.Len(t, coll.Timelines, 2)
	assert.Equal(t, "two", coll.Timelines[1].Name)
}

func TestCat_Stdin(t *testing.T) {
	data, err := codec.Marshal(tu.Timeline("piped"), codec.FormatJSON)
	require.NoError(t, err)

	r := runWithInput(t, string(data), "cat", "-")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, string(data), r.stdout)
}

func TestStack(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.json", tu.Timeline("reel1", tu.Track(t, "V1", tu.Clip("A", 0, 5))))
	b := writeDoc(t, dir, "b.json", tu.Timeline("reel2",
		tu.Track(t, "V1", tu.Clip("B", 0, 5)),
		tu.Track(t, "V2", tu.Clip("C", 0, 5)),
	))

	r := run(t, "stack", a, b)
	require.Equal(t, 0, r.code, r.stderr)

	tl := decodeJSON(t, r.stdout).(*schema.Timeline)
	assert.Equal(t, "Stacked Timelines", tl.Name)
	assert.Equal(t, "Stacked Timelines", tl.Tracks.Name)
	names := make([]string, 0, tl.Tracks.Len())
	for _, track := range tl.Tracks.Tracks {
		names = append(names, track.Name)
	}
	assert.Equal(t, []string{"reel1", "V1", "V2"}, names)

	r = run(t, "stack", a, "--name", "Reels")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "Reels", decodeJSON(t, r.stdout).(*schema.Timeline).Name)
}

func TestStack_ConfigName(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.json", tu.Timeline("reel1"))
	cfg := filepath.Join(dir, "splice.cue")
	require.NoError(t, os.WriteFile(cfg, []byte(`stack_name: "From Config"`), 0o644))

	r := run(t, "--config", cfg, "stack", a)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "From Config", decodeJSON(t, r.stdout).(*schema.Timeline).Name)
}

func TestFlatten(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "cut.json", occlusion(t))

	r := run(t, "flatten", path)
	require.Equal(t, 0, r.code, r.stderr)

	tl := decodeJSON(t, r.stdout).(*schema.Timeline)
	require.Equal(t, 1, tl.Tracks.Len())
	track := tl.Tracks.At(0)
	assert.Equal(t, []string{"A", "B"}, tu.Names(track))
	assert.True(t, track.Duration().Equal(tu.RT(10)))

	b := track.At(1).(*schema.Clip)
	assert.True(t, b.SourceRange.Equal(tu.Range(5, 5)))
}

func TestStripTransitions(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "cut.json", occlusion(t))
	out := filepath.Join(t.TempDir(), "stripped.yaml")

	r := run(t, "strip-transitions", path, "-o", out)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Empty(t, r.stdout)

	doc, err := codec.ReadFile(out)
	require.NoError(t, err)
	top := doc.(*schema.Timeline).Tracks.At(0)
	assert.Equal(t, []string{"A", ""}, tu.Names(top))
}

func TestTrim(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "cut.json", occlusion(t))

	r := run(t, "trim", path, "--start", "3", "--duration", "4")
	require.Equal(t, 0, r.code, r.stderr)

	tl := decodeJSON(t, r.stdout).(*schema.Timeline)
	bottom := tl.Tracks.At(1)
	require.Equal(t, 1, bottom.Len())
	assert.True(t, bottom.At(0).Base().SourceRange.Equal(tu.Range(3, 4)))
	assert.True(t, bottom.Start().Equal(tu.RT(3)))

	r = run(t, "trim", path, "--duration", "4", "--rate", "0")
	assert.Equal(t, ExitCommandError, r.code)
}

func TestDiff_Identical(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.json", occlusion(t))
	b := writeDoc(t, dir, "b.yaml", occlusion(t))

	r := run(t, "diff", a, b)
	assert.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "no differences (2 clips)\n", r.stdout)
}

func TestDiff_Differences(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.json", occlusion(t))
	changed := occlusion(t)
	changed.Tracks.At(1).At(0).Base().Name = "B2"
	b := writeDoc(t, dir, "b.json", changed)

	r := run(t, "diff", a, b)
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stdout, "only in a: B\n")
	assert.Contains(t, r.stdout, "only in b: B2\n")
	assert.NotContains(t, r.stderr, "Error [", "differences are not reported as errors")

	r = run(t, "--format", "json", "diff", a, b)
	assert.Equal(t, ExitFailure, r.code)

	var resp struct {
		Status string      `json:"status"`
		Data   diff.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"B"}, resp.Data.OnlyInA)
	assert.Equal(t, []string{"B2"}, resp.Data.OnlyInB)
}

func TestDiff_IgnoreFlag(t *testing.T) {
	dir := t.TempDir()
	tlA, tlB := occlusion(t), occlusion(t)
	tlA.Tracks.At(0).At(0).Base().Metadata.Set("note", meta.String("first pass"))
	tlB.Tracks.At(0).At(0).Base().Metadata.Set("note", meta.String("second pass"))
	a := writeDoc(t, dir, "a.json", tlA)
	b := writeDoc(t, dir, "b.json", tlB)

	r := run(t, "diff", a, b)
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stdout, "changed: A\n")
	assert.Contains(t, r.stdout, "+++ b/A\n")

	r = run(t, "diff", a, b, "--ignore", "note")
	assert.Equal(t, ExitSuccess, r.code, r.stdout)
}

func TestClipsAndMedia(t *testing.T) {
	dir := t.TempDir()
	tl := tu.Timeline("cut", tu.Track(t, "V1",
		tu.MediaClip("A", "file:///a.mov", 0, 5),
		tu.MediaClip("B", "file:///b.mov", 0, 5),
		tu.MediaClip("A", "file:///a.mov", 0, 5),
	))
	path := writeDoc(t, dir, "cut.json", tl)
	bare := writeDoc(t, dir, "bare.json", tu.Timeline("bare", tu.Track(t, "V1", tu.Clip("x", 0, 1))))

	r := run(t, "clips", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "A\nB\nA\n", r.stdout)

	r = run(t, "media", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "file:///a.mov\nfile:///b.mov\n", r.stdout)

	r = run(t, "media", bare)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "No media references found.\n", r.stdout)

	r = run(t, "--format", "json", "media", bare)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, `"data":[]`)
}

func TestUnlinkAndRelink(t *testing.T) {
	dir := t.TempDir()
	tl := tu.Timeline("cut", tu.Track(t, "V1",
		tu.MediaClip("A", "/old/a.mov", 0, 5),
		tu.MediaClip("B", "/keep/b.mov", 0, 5),
	))
	path := writeDoc(t, dir, "cut.json", tl)

	r := run(t, "relink", path, "--from", "/old/", "--to", "/new/")
	require.Equal(t, 0, r.code, r.stderr)
	clips := schema.Clips(decodeJSON(t, r.stdout).(*schema.Timeline))
	assert.Equal(t, "/new/a.mov", clips[0].MediaReference.TargetURL)
	assert.Equal(t, "/keep/b.mov", clips[1].MediaReference.TargetURL)

	r = run(t, "unlink", path)
	require.Equal(t, 0, r.code, r.stderr)
	for _, c := range schema.Clips(decodeJSON(t, r.stdout).(*schema.Timeline)) {
		assert.Nil(t, c.MediaReference)
	}

	r = run(t, "relink", path)
	assert.Equal(t, ExitCommandError, r.code, "--from is required")
}

func TestCopyMedia(t *testing.T) {
	src := t.TempDir()
	mediaPath := filepath.Join(src, "a.mov")
	require.NoError(t, os.WriteFile(mediaPath, []byte("frames"), 0o644))
	path := writeDoc(t, src, "cut.json", tu.Timeline("cut", tu.Track(t, "V1", tu.MediaClip("A", mediaPath, 0, 5))))
	dest := filepath.Join(t.TempDir(), "media")

	r := run(t, "copy-media", path, "--dir", dest)
	require.Equal(t, 0, r.code, r.stderr)

	clip := schema.Clips(decodeJSON(t, r.stdout).(*schema.Timeline))[0]
	assert.Equal(t, filepath.Join(dest, "a.mov"), clip.MediaReference.TargetURL)
	data, err := os.ReadFile(filepath.Join(dest, "a.mov"))
	require.NoError(t, err)
	assert.Equal(t, "frames", string(data))
}

func TestSnapshotLifecycle(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "splice.db")
	path := writeDoc(t, dir, "cut.json", occlusion(t))

	r := run(t, "--db", db, "--format", "json", "snapshot", "save", path, "--name", "rough")
	require.Equal(t, 0, r.code, r.stderr)
	var saved struct {
		Data store.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &saved))
	id := saved.Data.ID
	require.NotEmpty(t, id)
	assert.Equal(t, "rough", saved.Data.Name)

	// identical content resolves to the same snapshot
	r = run(t, "--db", db, "--format", "json", "snapshot", "save", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, id)

	r = run(t, "--db", db, "snapshot", "list")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, 1, strings.Count(r.stdout, "\n"))
	assert.Contains(t, r.stdout, id)
	assert.Contains(t, r.stdout, "rough")

	r = run(t, "--db", db, "snapshot", "show", id)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, occlusion(t), decodeJSON(t, r.stdout))

	r = run(t, "--db", db, "clips", "snapshot:"+id)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "A\nB\n", r.stdout)

	r = run(t, "--db", db, "diff", "snapshot:"+saved.Data.Digest, path)
	assert.Equal(t, ExitSuccess, r.code, r.stdout)

	r = run(t, "--db", db, "snapshot", "rm", id)
	require.Equal(t, 0, r.code, r.stderr)

	r = run(t, "--db", db, "--format", "json", "snapshot", "show", id)
	assert.Equal(t, ExitCommandError, r.code)
	assert.Contains(t, r.stdout, `"code":"E005"`)

	r = run(t, "--db", db, "snapshot", "list")
	assert.Equal(t, "No snapshots.\n", r.stdout)
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	track := writeDoc(t, dir, "track.json", tu.Track(t, "V1"))

	tests := []struct {
		name    string
		args    []string
		code    int
		errCode string
	}{
		{"missing file", []string{"cat", filepath.Join(dir, "absent.json")}, ExitCommandError, ErrCodeReadFailed},
		{"wrong kind", []string{"flatten", track}, ExitCommandError, ErrCodeInvalidInput},
		{"snapshot without db", []string{"cat", "snapshot:abc"}, ExitCommandError, ErrCodeUsage},
		{"bad output format", []string{"--output-format", "xml", "cat", track}, ExitCommandError, ErrCodeUsage},
		{"bad config", []string{"--config", filepath.Join(dir, "absent.cue"), "cat", track}, ExitCommandError, ErrCodeConfig},
		{"arity", []string{"diff", track}, ExitCommandError, ErrCodeUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, append([]string{"--format", "json"}, tt.args...)...)
			assert.Equal(t, tt.code, r.code)

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp), r.stdout)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.errCode, resp.Error.Code)
		})
	}

	r := run(t, "--format", "xml", "cat", track)
	assert.Equal(t, ExitCommandError, r.code)
	assert.Contains(t, r.stderr, "invalid format")
}
