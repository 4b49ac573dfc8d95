package detect

import "mime/multipart"

// validateDetectRequest checks the upload shape. Content-type dispatch is not
// validated here; an unrecognized type is a 415 at decode time, not a 400.
func validateDetectRequest(fileHeader *multipart.FileHeader) (bool, string) {
	if fileHeader == nil {
		return false, "file is required"
	}
	if fileHeader.Size == 0 {
		return false, "file is empty"
	}
	return true, ""
}
