package app

import (
	"log"
	"mime"
)

func init() {
	// Some minimal base images ship without /etc/mime.types, which
	// breaks Content-Type for the embedded stylesheet.
	ensureMimeType(".css", "text/css; charset=utf-8")
}

func ensureMimeType(ext, typ string) {
	if mime.TypeByExtension(ext) != "" {
		return
	}
	if err := mime.AddExtensionType(ext, typ); err != nil {
		log.Printf("app: failed to register MIME type for %s: %v", ext, err)
	}
}
