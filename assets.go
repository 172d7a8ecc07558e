package bfhl

import (
	"io/fs"

	"github.com/goliatone/go-bfhl/pkg/contract"
	"github.com/goliatone/go-bfhl/pkg/renderers/web"
)

// EmbeddedTemplates exposes the page templates so callers can copy and
// override them with web.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return web.TemplatesFS()
}

// AssetsFS exposes the stylesheet bundle.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(bfhl.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return web.AssetsFS()
}

// ContractDocument returns the embedded OpenAPI description of the endpoint.
func ContractDocument() []byte {
	return contract.Document()
}
