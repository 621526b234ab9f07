/*
Copyright © 2025 the Resticmon authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/resticmon/resticmon/pkg/serializer"
)

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"f"},
	Usage:   fmt.Sprintf("Output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
	Value:   string(serializer.FormatJSON),
}

// parseOutputFormat resolves the --format flag to a serializer format.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	format := serializer.Format(cmd.String("format"))
	if format.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			format, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return format, nil
}

func newStdoutWriter(format serializer.Format) *serializer.Writer {
	return serializer.NewWriter(format, os.Stdout)
}
