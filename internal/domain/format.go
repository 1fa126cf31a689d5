package domain

// OutputFormat identifies a recognized poster output format.
type OutputFormat string

const (
	FormatSquarePost      OutputFormat = "square_post"
	FormatPortraitPost    OutputFormat = "portrait_post"
	FormatStory           OutputFormat = "story"
	FormatLandscapeBanner OutputFormat = "landscape_banner"
	FormatPrintFlyer      OutputFormat = "print_flyer"
)

// DefaultOutputFormat is applied when the form omits a format.
const DefaultOutputFormat = FormatSquarePost

// FormatSpec maps a format to exact pixel dimensions and the aspect ratio
// requested from the generation service.
type FormatSpec struct {
	Format      OutputFormat
	Width       int
	Height      int
	AspectRatio string
	// ImageSize is the resolution tier requested from the service.
	ImageSize string
}

var formatSpecs = map[OutputFormat]FormatSpec{
	FormatSquarePost:      {Format: FormatSquarePost, Width: 1080, Height: 1080, AspectRatio: "1:1", ImageSize: "1K"},
	FormatPortraitPost:    {Format: FormatPortraitPost, Width: 1080, Height: 1350, AspectRatio: "4:5", ImageSize: "1K"},
	FormatStory:           {Format: FormatStory, Width: 1080, Height: 1920, AspectRatio: "9:16", ImageSize: "1K"},
	FormatLandscapeBanner: {Format: FormatLandscapeBanner, Width: 1920, Height: 1080, AspectRatio: "16:9", ImageSize: "1K"},
	FormatPrintFlyer:      {Format: FormatPrintFlyer, Width: 1200, Height: 1800, AspectRatio: "2:3", ImageSize: "2K"},
}

// LookupFormat returns the spec of a known format.
func LookupFormat(f OutputFormat) (FormatSpec, bool) {
	spec, ok := formatSpecs[f]
	return spec, ok
}

// Valid reports whether the format is recognized.
func (f OutputFormat) Valid() bool {
	_, ok := formatSpecs[f]
	return ok
}
