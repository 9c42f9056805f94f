package domain

// KeyPrefix namespaces every Valkey/Redis key the service writes.
const KeyPrefix = "catalogsearch:"
