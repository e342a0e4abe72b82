package request

// SavePageRequest asks the server to render and save a page.
type SavePageRequest struct {
	URL        string `json:"url"`
	OutputFile string `json:"output_file"`
	Engine     string `json:"engine"` // "browser" or "http"; empty uses the configured default
	Parse      bool   `json:"parse"`  // also run AI extraction on the saved HTML
}

// DownloadAudioRequest asks the server to download a song's audio.
type DownloadAudioRequest struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	OutputFile string `json:"output_file"`
	Geo        string `json:"geo"`
}
