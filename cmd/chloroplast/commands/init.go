package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/chloroplast/internal/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir      string `arg:"" optional:"" help:"Directory to create the site in" default:"." type:"path"`
	Title    string `help:"Site title" default:"My Site"`
	Locale   string `help:"Default locale" default:"en"`
	BasePath string `name:"base-path" help:"URL path the site is published under"`
	Force    bool   `help:"Overwrite existing files"`
}

func (i *InitCmd) Run(_ *CLI) error {
	return runInit(os.Stdout, afero.NewOsFs(), i)
}

func runInit(w io.Writer, fsys afero.Fs, i *InitCmd) error {
	written, err := scaffold.Init(fsys, scaffold.Options{
		Dir:      i.Dir,
		Title:    i.Title,
		Locale:   i.Locale,
		BasePath: i.BasePath,
		Force:    i.Force,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Created site in %s\n", i.Dir)
	for _, name := range written {
		fmt.Fprintf(w, "  %s\n", filepath.FromSlash(name))
	}
	return nil
}
