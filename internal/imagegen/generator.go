package imagegen

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"postforge/internal/fileutil"
	"postforge/internal/logging"
)

const (
	defaultWidth  = 1200
	defaultHeight = 630
)

// Generator renders share cards for posts. Rendering never fails outright:
// raster problems degrade to a deterministic SVG card.
type Generator struct {
	client JSONCompleter
	width  int
	height int
	logger *slog.Logger
}

// NewGenerator constructs a card generator. client may be nil to skip the
// text refinement step.
func NewGenerator(client JSONCompleter, width, height int, logger *slog.Logger) *Generator {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		client: client,
		width:  width,
		height: height,
		logger: logger.With(logging.String(logging.FieldComponent, "imagegen")),
	}
}

var hashtagPattern = regexp.MustCompile(`#[\w\-]+`)

// GenerateImage builds a card for the post and writes it near outputPath.
// The returned path is the file actually written, which carries a .svg
// extension when the raster renderer fails.
func (g *Generator) GenerateImage(ctx context.Context, postContent, topic, outputPath string) (string, error) {
	card := CardContent{
		Title:    TitleForTopic(topic),
		Subtitle: SubtitleForTopic(topic),
		Hashtags: footerHashtags(postContent),
		Theme:    ThemeForTopic(topic),
	}
	card = enhance(ctx, g.client, card, g.logger)

	palette := ThemePalette(card.Theme)
	err := renderCard(card, palette, g.width, g.height, outputPath)
	if err == nil {
		g.logger.Info("card rendered",
			logging.String("topic", topic),
			logging.String("theme", card.Theme),
			logging.String("path", outputPath))
		return outputPath, nil
	}
	g.logger.Warn("raster render failed, writing svg card",
		logging.String("topic", topic),
		logging.Error(err))

	svgPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".svg"
	svg := renderSVG(card, TopicPalette(topic), g.width, g.height)
	if err := fileutil.WriteFileAtomic(svgPath, []byte(svg), 0o644); err != nil {
		return "", err
	}
	g.logger.Info("svg card written",
		logging.String("topic", topic),
		logging.String("path", svgPath))
	return svgPath, nil
}

// footerHashtags pulls the first few hashtags out of the post body for the
// card footer.
func footerHashtags(postContent string) string {
	matches := hashtagPattern.FindAllString(postContent, 3)
	if len(matches) == 0 {
		return "#TechInnovation #AI"
	}
	return strings.Join(matches, " ")
}
