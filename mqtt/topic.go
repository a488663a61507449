package mqtt

import "strings"

// TopicSeparator separates MQTT topic levels.
const TopicSeparator = "/"

// TrimTopic trims TopicSeparator from the start and end of the specified topic.
func TrimTopic(topic string) string {
	return strings.Trim(topic, TopicSeparator)
}

// JoinTopic joins non-empty parts with TopicSeparator, trimming separators from each part as it is appended. Parts
// that are empty after trimming are skipped entirely, so the result never contains empty topic levels.
func JoinTopic(parts ...string) string {
	trimmed := make([]string, 0, len(parts))

	for _, part := range parts {
		part = TrimTopic(part)
		if part == "" {
			continue
		}

		trimmed = append(trimmed, part)
	}

	return strings.Join(trimmed, TopicSeparator)
}
