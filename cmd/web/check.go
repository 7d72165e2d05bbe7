package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wonderland.co.zw/panels-web/internal/content"
	"wonderland.co.zw/panels-web/internal/i18n"
	"wonderland.co.zw/panels-web/internal/render"
)

type checkOptions struct {
	contentDir   string
	templatesDir string
	localesDir   string
	locale       string
}

// newCheckCmd validates the on-disk site without starting a server, so
// content edits can be checked in CI.
func newCheckCmd() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate content, templates and message catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := content.Load(opts.contentDir)
			if err != nil {
				return err
			}
			if _, err := cat.Site.ReviewList(); err != nil {
				return err
			}
			bundle, err := i18n.Load(opts.localesDir, opts.locale, nil)
			if err != nil {
				return err
			}
			r, err := render.New(opts.templatesDir, false, render.Funcs(bundle))
			if err != nil {
				return fmt.Errorf("parse templates: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"ok: %d services, %d process steps, %d gallery pairs, %d reviews, %d page templates\n",
				len(cat.Site.Services), len(cat.Site.Process), cat.Gallery.Len(), len(cat.Site.Reviews), len(r.Pages()))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.contentDir, "content", "content", "content directory")
	f.StringVar(&opts.templatesDir, "templates", "templates", "templates directory")
	f.StringVar(&opts.localesDir, "locales", "locales", "message catalog directory")
	f.StringVar(&opts.locale, "locale", "en", "fallback locale")
	return cmd
}
