package mkvtoolnix

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/language"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/tracks"
)

// identification mirrors the slice of mkvmerge -J output this tool consumes.
type identification struct {
	Tracks []identifiedTrack `json:"tracks"`
}

type identifiedTrack struct {
	ID         int             `json:"id"`
	Type       string          `json:"type"`
	Codec      string          `json:"codec"`
	Properties trackProperties `json:"properties"`
}

type trackProperties struct {
	CodecID         string `json:"codec_id"`
	Number          int    `json:"number"`
	Language        string `json:"language"`
	LanguageIETF    string `json:"language_ietf"`
	TrackName       string `json:"track_name"`
	ForcedTrack     bool   `json:"forced_track"`
	HearingImpaired bool   `json:"flag_hearing_impaired"`
	TagBPS          string `json:"tag_bps"`
	TagFrames       string `json:"tag_number_of_frames"`
	TagDuration     string `json:"tag_duration"`
}

// parseIdentification decodes mkvmerge JSON and keeps subtitle tracks only.
// The mkvmerge id doubles as the mkvextract selector; the Matroska track
// number is what users see in other tools, so both travel on the descriptor.
func parseIdentification(data []byte) ([]tracks.Track, error) {
	var ident identification
	if err := json.Unmarshal(data, &ident); err != nil {
		return nil, fmt.Errorf("decode identification json: %w", err)
	}

	var out []tracks.Track
	for _, t := range ident.Tracks {
		if !strings.EqualFold(t.Type, "subtitles") {
			continue
		}
		codecTag := t.Properties.CodecID
		if codecTag == "" {
			codecTag = t.Codec
		}
		lang := t.Properties.Language
		if t.Properties.LanguageIETF != "" && t.Properties.LanguageIETF != "und" {
			lang = t.Properties.LanguageIETF
		}
		track := tracks.Track{
			DisplayID:  t.Properties.Number,
			ExtractID:  t.ID,
			CodecTag:   codecTag,
			Family:     tracks.ClassifyCodec(codecTag),
			Language:   language.ToISO3(lang),
			Forced:     t.Properties.ForcedTrack,
			ClosedCap:  isClosedCaption(t.Properties),
			Name:       strings.TrimSpace(t.Properties.TrackName),
			BitRate:    parseTagInt(t.Properties.TagBPS),
			FrameCount: parseTagInt(t.Properties.TagFrames),
			Duration:   parseTagDuration(t.Properties.TagDuration),
		}
		if track.DisplayID == 0 {
			track.DisplayID = t.ID
		}
		out = append(out, track)
	}
	return out, nil
}

func isClosedCaption(props trackProperties) bool {
	if props.HearingImpaired {
		return true
	}
	name := strings.ToUpper(props.TrackName)
	return strings.Contains(name, "SDH") || strings.Contains(name, "(CC)") || strings.HasSuffix(name, " CC")
}

func parseTagInt(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseTagDuration handles the statistics tag form HH:MM:SS.nnnnnnnnn.
func parseTagDuration(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
}
