package config

const (
	defaultConfigPath       = "~/.config/panchangreel/config.toml"
	defaultAssetsDir        = "~/.local/share/panchangreel/assets"
	defaultImageDir         = "~/.local/share/panchangreel/images"
	defaultVideoDir         = "~/.local/share/panchangreel/videos"
	defaultDataDir          = "~/.local/share/panchangreel/data"
	defaultLogDir           = "~/.local/share/panchangreel/logs"
	defaultBackground       = "background.jpg"
	defaultIntro            = "intro.jpg"
	defaultOutro            = "outro.jpg"
	defaultWidth            = 1080
	defaultHeight           = 1920
	defaultFontSize         = 40
	defaultLineSpacing      = 10
	defaultColor            = "#000000"
	defaultShadowColor      = "#c8c8c8"
	defaultShadowOffset     = 2
	defaultJPEGQuality      = 95
	defaultFPS              = 30
	defaultIntroSeconds     = 3
	defaultPanelSeconds     = 10
	defaultOutroSeconds     = 3
	defaultCaption          = "panchang"
	defaultDateLayout       = "02 January 2006"
	defaultVideoCodec       = "libx264"
	defaultPixelFormat      = "yuv420p"
	defaultPreset           = "medium"
	defaultCRF              = 20
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultAlmanacBaseURL   = "https://api.prokerala.com/v2/astrology"
	defaultAlmanacTokenURL  = "https://api.prokerala.com/token"
	defaultLatitude         = 17.3850
	defaultLongitude        = 78.4867
	defaultTimezone         = "Asia/Kolkata"
	defaultAyanamsa         = 1
	defaultLanguage         = "en"
	defaultAlmanacTimeout   = 30
	defaultAlmanacDayOffset = 1
	defaultNotifyTimeout    = 10
	defaultPublishPrefix    = "reels"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Fixed output file names.
const (
	Panel1FileName = "reel_part1.jpg"
	Panel2FileName = "reel_part2.jpg"
	VideoFileName  = "reel_video.mp4"
)

// DefaultHeadingKeywords lists the substrings that mark a line as a heading.
var DefaultHeadingKeywords = []string{
	"Tithi:",
	"Nakshatra:",
	"Auspicious Periods:",
	"Avoid These Times:",
	"Sunrise:",
	"Sunset:",
	"Lord:",
	"Paksha",
	"Muhurat",
	"Kaal",
	"Dur Muhurat",
	"Varjyam",
	"Rahu",
	"Yamaganda",
	"Gulika",
}

var defaultFallbackFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/Arial.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AssetsDir: defaultAssetsDir,
			ImageDir:  defaultImageDir,
			VideoDir:  defaultVideoDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
		},
		Assets: Assets{
			Background: defaultBackground,
			Intro:      defaultIntro,
			Outro:      defaultOutro,
		},
		Render: Render{
			Width:             defaultWidth,
			Height:            defaultHeight,
			FontSize:          defaultFontSize,
			LineSpacing:       defaultLineSpacing,
			Color:             defaultColor,
			ShadowColor:       defaultShadowColor,
			ShadowOffset:      defaultShadowOffset,
			FallbackFontPaths: append([]string(nil), defaultFallbackFontPaths...),
			JPEGQuality:       defaultJPEGQuality,
			StripEmoji:        true,
		},
		Reel: Reel{
			FPS:           defaultFPS,
			IntroSeconds:  defaultIntroSeconds,
			PanelSeconds:  defaultPanelSeconds,
			OutroSeconds:  defaultOutroSeconds,
			Caption:       defaultCaption,
			DateLayout:    defaultDateLayout,
			VideoCodec:    defaultVideoCodec,
			PixelFormat:   defaultPixelFormat,
			Preset:        defaultPreset,
			CRF:           defaultCRF,
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Verify:        true,
		},
		Partition: Partition{
			HeadingKeywords: append([]string(nil), DefaultHeadingKeywords...),
		},
		Almanac: Almanac{
			BaseURL:        defaultAlmanacBaseURL,
			TokenURL:       defaultAlmanacTokenURL,
			Latitude:       defaultLatitude,
			Longitude:      defaultLongitude,
			Timezone:       defaultTimezone,
			Ayanamsa:       defaultAyanamsa,
			Language:       defaultLanguage,
			TimeoutSeconds: defaultAlmanacTimeout,
			DayOffset:      defaultAlmanacDayOffset,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Completed:      true,
			Errors:         true,
		},
		Publish: Publish{
			Prefix: defaultPublishPrefix,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
