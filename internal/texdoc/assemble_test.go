package texdoc

import (
	"path/filepath"
	"testing"
)

func TestAssemble_NoDirectives(t *testing.T) {
	const body = `\documentclass{article}
\begin{document}
Nothing to include here.
\end{document}
`
	root := writeTree(t, map[string]string{"main.tex": body})

	got := Assemble(filepath.Join(root, "main.tex"), root)
	if got != body {
		t.Fatalf("content changed without directives:\ngot  %q\nwant %q", got, body)
	}
}

func TestAssemble_SplicesInPlace(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.tex":  `before \input{intro} after`,
		"intro.tex": "INTRO",
	})

	got := Assemble(filepath.Join(root, "main.tex"), root)
	want := "before INTRO after"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAssemble_Nested(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.tex":            `A\input{sections/one}Z`,
		"sections/one.tex":    `B\include{sections/two}Y`,
		"sections/two.tex":    "C",
		"sections/unused.tex": "never",
	})

	got := Assemble(filepath.Join(root, "main.tex"), root)
	if got != "ABCYZ" {
		t.Fatalf("got %q, want ABCYZ", got)
	}
}

func TestAssemble_ParentRelativeBeforeRoot(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.tex":           `\input{sections/body}`,
		"sections/body.tex":  `[\input{extra}]`,
		"sections/extra.tex": "PARENT",
		"extra.tex":          "ROOT",
	})

	got := Assemble(filepath.Join(root, "main.tex"), root)
	if got != "[PARENT]" {
		t.Fatalf("sibling of the including file wins: got %q, want [PARENT]", got)
	}
}

func TestAssemble_RootFallback(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.tex":          `\input{sections/body}`,
		"sections/body.tex": `[\input{shared}]`,
		"shared.tex":        "ROOT",
	})

	got := Assemble(filepath.Join(root, "main.tex"), root)
	if got != "[ROOT]" {
		t.Fatalf("got %q, want [ROOT]", got)
	}
}

func TestAssemble_ExplicitExtension(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.tex":  `\input{intro.tex}`,
		"intro.tex": "INTRO",
	})

	got := Assemble(filepath.Join(root, "main.tex"), root)
	if got != "INTRO" {
		t.Fatalf("got %q, want INTRO", got)
	}
}

func TestAssemble_MissingTargetExpandsEmpty(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.tex": `start \input{ghost} end`,
	})

	got := Assemble(filepath.Join(root, "main.tex"), root)
	if got != "start  end" {
		t.Fatalf("got %q, want %q", got, "start  end")
	}
}

func TestAssemble_SelfInclusionTerminates(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.tex": `A\input{main}B`,
	})

	got := Assemble(filepath.Join(root, "main.tex"), root)
	if got != "AB" {
		t.Fatalf("self-inclusion should expand to nothing: got %q", got)
	}
}

func TestAssemble_TwoFileCycle(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.tex": `A1\input{b}A2`,
		"b.tex": `B1\input{a}B2`,
	})

	got := Assemble(filepath.Join(root, "a.tex"), root)
	if got != "A1B1B2A2" {
		t.Fatalf("cycle content should appear once: got %q", got)
	}
}

func TestAssemble_RepeatedIncludeExpandsOnce(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.tex": `\input{x}|\input{x}`,
		"x.tex":    "X",
	})

	got := Assemble(filepath.Join(root, "main.tex"), root)
	if got != "X|" {
		t.Fatalf("second reference should expand empty: got %q", got)
	}
}

func TestAssembleAll_SortedConcatenation(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.tex": "BBB",
		"a.tex": "AAA",
		"c.txt": "not tex",
	})

	got := AssembleAll(root)
	if got != "AAA\nBBB\n" {
		t.Fatalf("got %q, want %q", got, "AAA\nBBB\n")
	}
}
