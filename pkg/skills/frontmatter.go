package skills

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

var frontmatterParser = goldmark.New(goldmark.WithExtensions(meta.Meta))

// readSummary returns the frontmatter description of a SKILL.md file, or an
// empty string when the file has none. It never fails discovery.
func readSummary(ctx context.Context, path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("path", path).Debug("failed to read skill summary")
		return ""
	}
	return summaryFromMarkdown(ctx, content)
}

func summaryFromMarkdown(ctx context.Context, content []byte) string {
	if !bytes.HasPrefix(content, []byte("---")) {
		return ""
	}

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := frontmatterParser.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		logger.G(ctx).WithError(err).Debug("failed to parse skill frontmatter")
		return ""
	}

	metaData, err := meta.TryGet(pctx)
	if err != nil {
		logger.G(ctx).WithError(err).Debug("invalid skill frontmatter")
		return ""
	}

	description, _ := metaData["description"].(string)
	return strings.Join(strings.Fields(description), " ")
}
