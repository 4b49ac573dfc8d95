package metric

import "strconv"

const (
	TagEnv            = "env"
	TagService        = "service"
	TagPath           = "path"
	TagMethod         = "method"
	TagHttpStatusCode = "http_status_code"
	TagExternal       = "external_service"
)

type Tag struct {
	Key   string
	Value string
}

func NewTag(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

func TagAsString(key, value string) string {
	return key + ":" + value
}

func BuildTag(tags ...Tag) []string {
	built := make([]string, 0, len(tags))
	for _, tag := range tags {
		built = append(built, TagAsString(tag.Key, tag.Value))
	}
	return built
}

func BuildExternalHTTPServiceCountTags(service, path, method string, statusCode int) []string {
	return BuildTag(
		NewTag(TagExternal, service),
		NewTag(TagPath, path),
		NewTag(TagMethod, method),
		NewTag(TagHttpStatusCode, strconv.Itoa(statusCode)),
	)
}

func BuildExternalHTTPServiceLatencyTags(service, path, method string, statusCode int) []string {
	return BuildExternalHTTPServiceCountTags(service, path, method, statusCode)
}
