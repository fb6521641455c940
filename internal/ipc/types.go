package ipc

import "taiyaku/internal/dispatch"

// ServiceName is the JSON-RPC service the server registers.
const ServiceName = "Taiyaku"

// Wire types are the dispatcher's request and response DTOs.
type (
	SaveRequest    = dispatch.SaveRequest
	SaveResponse   = dispatch.SaveResponse
	ListRequest    = dispatch.ListRequest
	ListResponse   = dispatch.ListResponse
	SearchRequest  = dispatch.SearchRequest
	UpdateRequest  = dispatch.UpdateRequest
	DeleteRequest  = dispatch.DeleteRequest
	CountResponse  = dispatch.CountResponse
	ExportRequest  = dispatch.ExportRequest
	ExportResponse = dispatch.ExportResponse
	ImportRequest  = dispatch.ImportRequest
	ImportResponse = dispatch.ImportResponse
	GetRequest     = dispatch.GetRequest
	GetResponse    = dispatch.GetResponse
	StatusRequest  = dispatch.StatusRequest
	StatusResponse = dispatch.StatusResponse
)
