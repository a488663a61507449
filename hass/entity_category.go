package hass

// Entity category values. Entities without a category are considered primary entities.
//
// See https://developers.home-assistant.io/docs/core/entity/#generic-properties
const (
	// EntityCategoryConfig marks an entity that allows changing the configuration of a device.
	EntityCategoryConfig = "config"
	// EntityCategoryDiagnostic marks an entity exposing some (non-primary) information about a device.
	EntityCategoryDiagnostic = "diagnostic"
)

// EntityCategories is the set of entity_category values accepted by Home Assistant.
var EntityCategories = NewSet(EntityCategoryConfig, EntityCategoryDiagnostic)
