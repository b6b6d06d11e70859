package controllers

type alternativeRoutesRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
	K              int64   `json:"k" validate:"required,min=1,max=10"`
}

type alternativeRoutesResponse struct {
	Routes []AlternativePathResult `json:"routes"`
}

func newAlternativeRoutesResponse(routes []AlternativePathResult) alternativeRoutesResponse {
	return alternativeRoutesResponse{Routes: routes}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
