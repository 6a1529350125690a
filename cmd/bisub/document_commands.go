package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bisub/internal/config"
	"bisub/internal/document"
	"bisub/internal/fileutil"
	"bisub/internal/segment"
)

const segmentTextWidth = 60

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "detect <file|->",
		Short: "Report the detected content type of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc := document.Load(args[0], text, "")
			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"contentType": doc.ContentType,
					"segments":    len(doc.Segments),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d segments)\n", doc.ContentType, len(doc.Segments))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newSegmentsCommand(ctx *commandContext) *cobra.Command {
	var contentType string
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "segments <file|->",
		Short: "List the segments a document parses into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			override, err := optionalContentType(contentType)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc := document.Load(args[0], text, override)
			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"contentType": doc.ContentType,
					"segments":    nonNilSegments(doc.Segments),
				})
			}
			out := cmd.OutOrStdout()
			if len(doc.Segments) == 0 {
				fmt.Fprintf(out, "No segments found (content type %s)\n", doc.ContentType)
				return nil
			}
			rows := make([][]string, 0, len(doc.Segments))
			for _, seg := range doc.Segments {
				rows = append(rows, []string{
					strconv.Itoa(seg.ID),
					seg.StartTime,
					seg.EndTime,
					truncate(seg.OriginalText, segmentTextWidth),
				})
			}
			fmt.Fprintf(out, "Content type: %s\n", doc.ContentType)
			fmt.Fprint(out, renderTable([]column{rightCol("ID"), leftCol("Start"), leftCol("End"), leftCol("Text")}, rows))
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&contentType, "type", "", "Force content type: subtitle, lyrics, plain-text")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var contentType string
	var mode string
	var output string
	var source string
	cmd := &cobra.Command{
		Use:   "convert <file|->",
		Short: "Re-render a document or a segment JSON dump without translating",
		Long: `Re-render a document in an output mode without calling a provider.

The input is either source text or the JSON written by
"bisub segments --json" (or the segments of an API translate response),
which lets previously translated segments be rendered in another mode.
Changing the content type of a dump needs --source: the original text is
reparsed under the new type and translations carry over by position.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			outputMode, err := segment.ParseOutputMode(firstNonEmpty(mode, cfg.Output.Mode))
			if err != nil {
				return err
			}
			override, err := optionalContentType(contentType)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			var rendered string
			if dump, ok := decodeSegmentDump(text); ok {
				switch {
				case dump.ContentType == "" && override == "":
					return fmt.Errorf("segment dump has no contentType; pass --type")
				case dump.ContentType == "" || override == "" || override == dump.ContentType:
					rendered = segment.Serialize(dump.Segments, firstContentType(override, dump.ContentType), outputMode)
				default:
					doc, err := retypeDump(cmd, dump, source, override)
					if err != nil {
						return err
					}
					rendered = doc.Export(outputMode)
				}
			} else {
				rendered = document.Load(args[0], text, override).Export(outputMode)
			}

			dest := strings.TrimSpace(output)
			if dest == "" || dest == "-" {
				fmt.Fprint(cmd.OutOrStdout(), ensureTrailingNewline(rendered))
				return nil
			}
			expanded, err := config.ExpandPath(dest)
			if err != nil {
				return err
			}
			if err := fileutil.WriteAtomic(expanded, []byte(ensureTrailingNewline(rendered)), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", expanded, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", expanded)
			return nil
		},
	}
	cmd.Flags().StringVar(&contentType, "type", "", "Content type: subtitle, lyrics, plain-text")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Output mode")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default stdout)")
	cmd.Flags().StringVar(&source, "source", "", "Original text of a segment dump, required when --type changes its content type")
	return cmd
}

// retypeDump rebuilds a dump's document from its source text and switches it
// to contentType, carrying translations when the segment count allows.
func retypeDump(cmd *cobra.Command, dump segmentDump, source string, contentType segment.ContentType) (*document.Document, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("segment dump is %s; changing it to %s needs --source with the original text", dump.ContentType, contentType)
	}
	raw, err := readInput(cmd, source)
	if err != nil {
		return nil, err
	}
	doc := document.Load(source, raw, dump.ContentType)
	carried, ok := segment.CarryTranslations(dump.Segments, doc.Segments)
	if !ok {
		return nil, fmt.Errorf("%s has %d %s segments, dump has %d", source, len(doc.Segments), dump.ContentType, len(dump.Segments))
	}
	doc.Segments = carried
	if !doc.SetContentType(contentType) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Translations dropped: %s parses to %d segments as %s\n", source, len(doc.Segments), contentType)
	}
	return doc, nil
}

func firstContentType(values ...segment.ContentType) segment.ContentType {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type segmentDump struct {
	ContentType segment.ContentType `json:"contentType"`
	Segments    []segment.Segment   `json:"segments"`
}

// decodeSegmentDump accepts {"contentType","segments"} objects or a bare
// segment array.
func decodeSegmentDump(text string) (segmentDump, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return segmentDump{}, false
	}
	var dump segmentDump
	if trimmed[0] == '[' {
		if err := json.Unmarshal([]byte(trimmed), &dump.Segments); err != nil {
			return segmentDump{}, false
		}
		return dump, len(dump.Segments) > 0
	}
	if err := json.Unmarshal([]byte(trimmed), &dump); err != nil || dump.Segments == nil {
		return segmentDump{}, false
	}
	if dump.ContentType != "" {
		parsed, err := segment.ParseContentType(string(dump.ContentType))
		if err != nil {
			return segmentDump{}, false
		}
		dump.ContentType = parsed
	}
	return dump, true
}

func optionalContentType(value string) (segment.ContentType, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return segment.ParseContentType(value)
}

func nonNilSegments(segments []segment.Segment) []segment.Segment {
	if segments == nil {
		return []segment.Segment{}
	}
	return segments
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
