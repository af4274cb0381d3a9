package di

// Names defines the well-known component keys used by httptargets.
// Applications may register their own components under any other key.
type Names struct {
	Config      string
	Logger      string
	HTTPTargets string
}

// Keys contains the component keys registered by the httptargets bootstrap.
var Keys = Names{
	Config:      "config",
	Logger:      "logger",
	HTTPTargets: "http_targets",
}
