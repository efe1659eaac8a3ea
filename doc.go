// Package dlss manages the lifecycle of neural reconstruction features
// (super resolution and ray reconstruction) for a host renderer.
//
// # Overview
//
// A Manager binds one host device to one backend session. Each view the
// host renders (a camera, an eye, a viewport) owns at most one feature
// context, created with CreateContext and evaluated once per frame with
// Execute. The backend is reached through the ngx package, which defines
// the backend contract and the parameter block used to talk to it.
//
// # Quick Start
//
//	m, err := dlss.NewManager(host, backend)
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	if err := m.Initialize(dlss.InitParams{ProjectID: "demo"}); err != nil {
//	    return err
//	}
//	err = m.CreateContext(0, &dlss.ContextCreateParams{
//	    Mode:             dlss.ModeSuperResolution,
//	    Quality:          dlss.QualityBalanced,
//	    InputResolution:  dlss.Dimensions{Width: 1280, Height: 720},
//	    OutputResolution: dlss.Dimensions{Width: 1920, Height: 1080},
//	})
//
//	// Every frame, while the host records its command list:
//	err = m.Execute(0, &params)
//	m.NextFrame()
//
// # Command Lists
//
// Feature creation needs a command list. When the host is recording one,
// creation is recorded into it. Otherwise a host that implements
// OneShotRecorder provides a list that is submitted right after creation.
//
// # Deferred Work
//
// Hosts that record on their own render thread can run work from a
// callback instead. Manager.RenderEventFunc executes the current view with
// staged parameters. Dispatcher stages raw Create, Evaluate and Destroy
// events in an arena and performs them when the host fires them.
//
// # Errors
//
// Operations return a Result as error, or nil on success. Backend failures
// are translated to a Result and logged once with the native code.
//
// # Logging
//
// dlss is silent by default. Install a logger with SetLogger, or route
// output to a callback with SetLogSink.
package dlss
