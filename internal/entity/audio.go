package entity

import "strings"

// AudioRequest asks for the audio of a song to be downloaded.
type AudioRequest struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	OutputFile  string `json:"output_file"`
	GeoLocation string `json:"geo,omitempty"` // ISO country code or CIDR block
}

// Query is the search text sent to the video platform: "<title> <artist> audio".
func (r AudioRequest) Query() string {
	return strings.Join(strings.Fields(r.Title+" "+r.Artist+" audio"), " ")
}

// AudioJob is one fully resolved downloader invocation.
type AudioJob struct {
	Target         string
	OutputTemplate string
	Format         string
	AudioFormat    string
	AudioQuality   string
	Headers        []string
	GeoLocation    string
}
