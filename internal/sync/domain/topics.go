package domain

// Notification topics emitted by the delivery pipeline.
const (
	TopicSyncStart   = "sync:start"
	TopicSyncSuccess = "sync:success"
	TopicSyncError   = "sync:error"
	TopicSyncOffline = "sync:offline"
	TopicSyncPull    = "sync:pull"
)
