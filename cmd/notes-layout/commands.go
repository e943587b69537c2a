package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/treykane/notes-layout/internal/config"
	"github.com/treykane/notes-layout/internal/host"
	"github.com/treykane/notes-layout/internal/layout"
	"github.com/treykane/notes-layout/internal/persist"
	"github.com/treykane/notes-layout/internal/resolver"
	"github.com/treykane/notes-layout/internal/rules"
)

// runResolve prints the layout a freshly selected note would get.
func runResolve(ctx context.Context, opts options, documentID string, out, stderr io.Writer) error {
	cfg, _, err := loadConfig(opts)
	if err != nil {
		return err
	}
	restore, err := configureLogging(cfg, stderr)
	if err != nil {
		return err
	}
	defer restore()
	store, err := tagStore(opts, cfg)
	if err != nil {
		return err
	}

	var reader rules.Reader
	if err := reader.Refresh(ctx, config.Static{Settings: cfg.Settings}, nil); err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	doc, err := store.Note(ctx, documentID)
	if err != nil {
		return fmt.Errorf("read note %s: %w", documentID, err)
	}
	tags, err := host.TagTitles(ctx, store, documentID)
	if err != nil {
		return fmt.Errorf("read tags of %s: %w", documentID, err)
	}

	decision, _ := resolver.Resolve(resolver.Input{DocumentID: documentID, Tags: tags}, reader.Rules(), resolver.State{})
	source := "default"
	if decision.Matched {
		source = "tag"
	}
	fmt.Fprintf(out, "%s\t%s\t%s\t(%s)\n", doc.ID, doc.Title, decision.Target, source)
	return nil
}

// runPersist tags notes with the --layout label.
func runPersist(ctx context.Context, opts options, documentIDs []string, out, stderr io.Writer) error {
	k, err := layout.ParseKind(opts.layout)
	if err != nil {
		return fmt.Errorf("--layout: %w", err)
	}
	cfg, _, err := loadConfig(opts)
	if err != nil {
		return err
	}
	restore, err := configureLogging(cfg, stderr)
	if err != nil {
		return err
	}
	defer restore()
	store, err := tagStore(opts, cfg)
	if err != nil {
		return err
	}

	writer := persist.Writer{Store: store}
	if err := writer.Persist(ctx, documentIDs, k); err != nil {
		return err
	}
	fmt.Fprintf(out, "tagged %d note(s) with %s\n", len(documentIDs), layout.Select(k).Label())
	return nil
}

// runLayouts lists the layout catalog.
func runLayouts(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LAYOUT\tTAG\tSOURCE VIEW\tPANES")
	for _, k := range layout.Concrete() {
		d, _ := layout.Describe(k)
		panes := "-"
		if len(d.Panes) > 0 {
			panes = d.Panes.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", k, d.Label, d.SourceView, panes)
	}
	return w.Flush()
}
