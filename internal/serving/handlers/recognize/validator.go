package recognize

func validateRecognizeRequest(request *RecognizeRequest) (bool, string) {
	if len(request.Embedding) == 0 {
		return false, "embedding is required"
	}
	return true, ""
}
