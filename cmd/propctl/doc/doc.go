// Package doc holds the propctl commands. They work on the parsed tag tree
// of a document, so no group schema is needed.
package doc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-slark/proptree/archiver"
	_ "github.com/go-slark/proptree/archiver/msgpack"
	_ "github.com/go-slark/proptree/archiver/toml"
	_ "github.com/go-slark/proptree/archiver/xml"
	_ "github.com/go-slark/proptree/archiver/yaml"
	"github.com/go-slark/proptree/errors"
	"github.com/go-slark/proptree/pkg/colour"
	"github.com/spf13/cobra"
)

const stdio = "-"

// resolve picks the archiver named by flag, or the one registered for the
// extension of path.
func resolve(flag, path string) (archiver.Archiver, error) {
	if flag != "" {
		if ar := archiver.Get(flag); ar != nil {
			return ar, nil
		}
		return nil, errors.Configuration("unknown archiver").WithMeta(errors.MetaArchiver, flag)
	}
	if path == stdio || path == "" {
		return nil, errors.Configuration("format flag required for standard streams")
	}
	if ar := archiver.ByExtension(filepath.Ext(path)); ar != nil {
		return ar, nil
	}
	return nil, errors.Configuration("cannot infer format from extension").WithMeta(errors.MetaPath, path)
}

func read(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdio {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func write(cmd *cobra.Command, path string, data []byte) error {
	if path == stdio || path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// decode parses path with ar and puts the tree in canonical order.
func decode(cmd *cobra.Command, ar archiver.Archiver, path string) (*archiver.Node, error) {
	data, err := read(cmd, path)
	if err != nil {
		return nil, err
	}
	root, err := ar.Decode(data)
	if err != nil {
		return nil, errors.FromError(err).WithMetadata(map[string]string{errors.MetaArchiver: ar.Name(), "file": path})
	}
	root.Sort()
	return root, nil
}

var (
	convertFrom string
	convertTo   string
	convertOut  string
)

var ConvertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "convert a document to another format",
	Long:  "convert a document to another archiver format; use - to read standard input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := resolve(convertFrom, args[0])
		if err != nil {
			return err
		}
		to, err := resolve(convertTo, convertOut)
		if err != nil {
			return err
		}
		root, err := decode(cmd, from, args[0])
		if err != nil {
			return err
		}
		out, err := archiver.Marshal(to, root)
		if err != nil {
			return err
		}
		return write(cmd, convertOut, out)
	},
}

var (
	fmtFrom  string
	fmtWrite bool
)

var FmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "rewrite a document in canonical order",
	Long:  "rewrite a document in canonical order and layout, keeping its format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ar, err := resolve(fmtFrom, args[0])
		if err != nil {
			return err
		}
		root, err := decode(cmd, ar, args[0])
		if err != nil {
			return err
		}
		out, err := archiver.Marshal(ar, root)
		if err != nil {
			return err
		}
		if fmtWrite {
			return write(cmd, args[0], out)
		}
		return write(cmd, stdio, out)
	},
}

var (
	listFrom  string
	listColor bool
)

var ListCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "print every value as path = value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ar, err := resolve(listFrom, args[0])
		if err != nil {
			return err
		}
		root, err := decode(cmd, ar, args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		return root.Walk(func(path string, leaf *archiver.Node) error {
			value := strconv.Quote(leaf.Value())
			if listColor {
				path, value = colour.Blue(path), colour.Green(value)
			}
			_, err := fmt.Fprintf(w, "%s = %s\n", path, value)
			return err
		})
	},
}

var ArchiversCmd = &cobra.Command{
	Use:   "archivers",
	Short: "list registered archivers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range archiver.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	ConvertCmd.Flags().StringVarP(&convertFrom, "from", "f", "", "input archiver, inferred from the extension by default")
	ConvertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "output archiver, inferred from --output by default")
	ConvertCmd.Flags().StringVarP(&convertOut, "output", "o", stdio, "output file")

	FmtCmd.Flags().StringVarP(&fmtFrom, "from", "f", "", "archiver, inferred from the extension by default")
	FmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write the result back to the file")

	ListCmd.Flags().StringVarP(&listFrom, "from", "f", "", "archiver, inferred from the extension by default")
	ListCmd.Flags().BoolVar(&listColor, "color", false, "colour paths and values")
}
