// Package extract turns uploaded file bytes into ingestion inputs.
//
// Each subpackage handles a family of MIME types. Registry picks the
// extractor for a file by MIME type, falling back to the file extension.
package extract
