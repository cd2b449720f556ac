package domain

// KeyPrefix namespaces every key the client writes to local storage.
const KeyPrefix = "seoscribe:"
