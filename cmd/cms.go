package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/vastu/internal/cms"
)

var cmsCmd = &cobra.Command{
	Use:   "cms",
	Short: "Manage content through the content API",
	Long: `List, fetch, create, update and delete blogs, courses, services,
testimonials, student success stories and students.

Resources: ` + resourceNames(),
}

var cmsListCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "List a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := documents(args[0])
		if err != nil {
			return err
		}
		items, err := coll.List(cmd.Context())
		if err != nil {
			return apiError(err)
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(out, items)
		}
		if len(items) == 0 {
			fmt.Fprintln(out, "No items found.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tSLUG")
		for _, it := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", it.ID(), it.Title(), it.Slug())
		}
		return tw.Flush()
	},
}

var cmsGetCmd = &cobra.Command{
	Use:   "get <resource> <slug>",
	Short: "Fetch one item by slug",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := documents(args[0])
		if err != nil {
			return err
		}
		item, err := coll.BySlug(cmd.Context(), args[1])
		if err != nil {
			return apiError(err)
		}
		return writeJSON(cmd.OutOrStdout(), item)
	},
}

var cmsCreateCmd = &cobra.Command{
	Use:   "create <resource>",
	Short: "Create an item from --field, --json and --file values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := documents(args[0])
		if err != nil {
			return err
		}
		form, err := formFromFlags(cmd)
		if err != nil {
			return err
		}
		item, err := coll.Create(cmd.Context(), form)
		if err != nil {
			return apiError(err)
		}
		return writeResult(cmd, item, "created")
	},
}

var cmsUpdateCmd = &cobra.Command{
	Use:   "update <resource> <id>",
	Short: "Replace an item's fields",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := documents(args[0])
		if err != nil {
			return err
		}
		form, err := formFromFlags(cmd)
		if err != nil {
			return err
		}
		item, err := coll.Update(cmd.Context(), args[1], form)
		if err != nil {
			return apiError(err)
		}
		return writeResult(cmd, item, "updated")
	},
}

var cmsDeleteCmd = &cobra.Command{
	Use:   "delete <resource> <id>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := documents(args[0])
		if err != nil {
			return err
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			ok, err := confirm(cmd, fmt.Sprintf("Delete %s %s?", args[0], args[1]))
			if err != nil || !ok {
				return err
			}
		}
		if err := coll.Delete(cmd.Context(), args[1]); err != nil {
			return apiError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	cmsListCmd.Flags().Bool("json", false, "Print raw JSON")

	for _, c := range []*cobra.Command{cmsCreateCmd, cmsUpdateCmd} {
		c.Flags().StringArray("field", nil, "Scalar field as key=value (repeatable)")
		c.Flags().StringArray("json", nil, "JSON-encoded field as key=<json> (repeatable), e.g. tags='[\"a\",\"b\"]'")
		c.Flags().StringArray("file", nil, "File attachment as field=path: image, media, mainImage or subServiceImage_N")
	}
	cmsDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	cmsCmd.AddCommand(cmsListCmd, cmsGetCmd, cmsCreateCmd, cmsUpdateCmd, cmsDeleteCmd)
}

func resourceNames() string {
	names := make([]string, 0, len(cms.Resources()))
	for _, r := range cms.Resources() {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}

func documents(name string) (*cms.Collection[cms.Document], error) {
	r, ok := cms.ParseResource(name)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q (one of: %s)", name, resourceNames())
	}
	cfg := loadConfig()
	if !cfg.CMSEnabled() {
		return nil, errors.New("content API not configured: set VASTU_API_BASE_URL or --api-base-url")
	}
	return cms.NewCollection[cms.Document](newCMSClient(cfg), r), nil
}

// formFromFlags builds the multipart form. --json values are checked to be
// valid JSON and sent verbatim.
func formFromFlags(cmd *cobra.Command) (*cms.Form, error) {
	form := cms.NewForm()

	fields, _ := cmd.Flags().GetStringArray("field")
	for _, kv := range fields {
		k, val, err := splitPair(kv, "--field")
		if err != nil {
			return nil, err
		}
		form.Set(k, val)
	}

	jsonFields, _ := cmd.Flags().GetStringArray("json")
	for _, kv := range jsonFields {
		k, val, err := splitPair(kv, "--json")
		if err != nil {
			return nil, err
		}
		if !json.Valid([]byte(val)) {
			return nil, fmt.Errorf("--json %s: value is not valid JSON", k)
		}
		form.Set(k, val)
	}

	files, _ := cmd.Flags().GetStringArray("file")
	for _, kv := range files {
		field, path, err := splitPair(kv, "--file")
		if err != nil {
			return nil, err
		}
		form.AttachFile(field, path)
	}
	return form, nil
}

func splitPair(kv, flag string) (string, string, error) {
	k, val, ok := strings.Cut(kv, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return "", "", fmt.Errorf("%s %q: expected key=value", flag, kv)
	}
	return strings.TrimSpace(k), val, nil
}

// apiError turns API failures into a one-line message.
func apiError(err error) error {
	if errors.Is(err, cms.ErrNotFound) {
		return errors.New("not found")
	}
	return errors.New(cms.Message(err))
}

func writeResult(cmd *cobra.Command, item *cms.Document, verb string) error {
	out := cmd.OutOrStdout()
	if item == nil {
		fmt.Fprintln(out, strings.ToUpper(verb[:1])+verb[1:])
		return nil
	}
	fmt.Fprintf(out, "%s %s (%s)\n", strings.ToUpper(verb[:1])+verb[1:], item.Title(), item.ID())
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
