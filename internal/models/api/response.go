package api

type ImageInfo struct {
	ID      string `json:"id"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Mutable bool   `json:"mutable"`
}

type RGBResponse struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Pixels []uint32 `json:"pixels"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
