package logg

const (
	Layer     = "layer"
	Operation = "operation"
	ScanID    = "scan_id"
	Selector  = "selector"
	Family    = "family"
	Tag       = "tag"
	URL       = "url"
	Path      = "path"
	Command   = "command"
)
