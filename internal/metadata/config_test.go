package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_LookupMostSpecificWins(t *testing.T) {
	site := FromMap("site", map[string]string{"title": "Site", "activeNav": "home"})
	page := FromMap("page", map[string]string{"Title": "Intro"})

	cfg := New(site, page)
	require.Equal(t, "Intro", cfg.Get("title"))
	require.Equal(t, "home", cfg.Get("ACTIVENAV"))
	require.False(t, cfg.Has("missing"))
	require.Equal(t, "", cfg.Get("missing"))
}

func TestMerge_NilCases(t *testing.T) {
	a := New(FromMap("a", map[string]string{"k": "v"}))
	require.Nil(t, Merge(nil, nil))
	require.Same(t, a, Merge(a, nil))
	require.Same(t, a, Merge(nil, a))
}

func TestMerge_ChildWinsCaseInsensitive(t *testing.T) {
	parent := New(FromMap("parent", map[string]string{"Title": "A", "layout": "doc"}))
	child := New(FromMap("child", map[string]string{"title": "B"}))

	merged := Merge(parent, child)
	require.Equal(t, "B", merged.Get("TITLE"))
	require.Equal(t, "doc", merged.Get("Layout"))
}

func TestMerge_Associative(t *testing.T) {
	a := New(FromMap("a", map[string]string{"x": "a", "y": "a", "z": "a"}))
	b := New(FromMap("b", map[string]string{"X": "b", "y": "b"}))
	c := New(FromMap("c", map[string]string{"x": "c"}))

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	stack := New(a.Layers()[0], b.Layers()[0], c.Layers()[0])

	for _, key := range []string{"x", "y", "z", "w"} {
		lv, lok := left.Lookup(key)
		rv, rok := right.Lookup(key)
		sv, sok := stack.Lookup(key)
		require.Equal(t, sv, lv, key)
		require.Equal(t, sv, rv, key)
		require.Equal(t, sok, lok, key)
		require.Equal(t, sok, rok, key)
	}
	require.Equal(t, "c", left.Get("x"))
	require.Equal(t, "b", left.Get("y"))
	require.Equal(t, "a", left.Get("z"))
}

func TestMerge_AncestorKeyVisibleToPartial(t *testing.T) {
	site := New(FromMap("site", map[string]string{"title": "Docs"}))
	root := FromMap("root", map[string]string{"activeNav": "guide"})
	page := FromMap("page", map[string]string{"title": "Install"})
	partial := FromMap("partial", map[string]string{"template": "Menu"})

	cfg := Merge(Merge(site, New(root, page)), New(partial))
	require.Equal(t, "guide", cfg.Get("activenav"))
	require.Equal(t, "Install", cfg.Get("title"))
	require.Equal(t, "Menu", cfg.Get("template"))
}

func TestConfig_NullOverridesParent(t *testing.T) {
	parent := FromMap("parent", map[string]string{"template": "Doc"})
	child := NewLayer("child")
	child.SetNull("template")

	cfg := New(parent, child)
	require.True(t, cfg.Has("template"))
	require.True(t, cfg.IsNull("template"))
	require.Equal(t, "", cfg.Get("template"))
	require.Equal(t, "Default", cfg.GetOr("template", "Default"))
}

func TestConfig_Children(t *testing.T) {
	l := NewLayer("menu")
	for _, k := range []string{"menu:10:title", "menu:2:title", "menu:2:path", "menu:0:title", "other"} {
		l.Set(k, "v")
	}
	require.Equal(t, []string{"0", "2", "10"}, New(l).Children("menu"))
	require.Equal(t, []string{"menu", "other"}, New(l).Children(""))
}

func TestConfig_TypedAccessors(t *testing.T) {
	cfg := New(FromMap("x", map[string]string{"draft": "true", "weight": "7", "bad": "x"}))
	require.True(t, cfg.Bool("draft"))
	require.False(t, cfg.Bool("bad"))
	require.Equal(t, 7, cfg.Int("weight", 0))
	require.Equal(t, 3, cfg.Int("bad", 3))
}

func TestLayer_KeysKeepOriginalSpelling(t *testing.T) {
	l := NewLayer("p")
	l.Set("Title", "a")
	l.Set("TITLE", "b")
	require.Equal(t, 1, l.Len())
	require.Equal(t, []string{"TITLE"}, l.Keys())
	v, ok := l.Lookup("title")
	require.True(t, ok)
	require.Equal(t, "b", v.Raw)
}
