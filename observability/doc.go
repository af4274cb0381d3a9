// Package observability wires OpenTelemetry tracing and metrics into
// httpclient.
//
// Providers:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
// Client features:
//
//	targets, err := httpclient.New(cfg,
//		httpclient.WithFeature(observability.TracingFeature()),
//		httpclient.WithFeature(observability.MetricsFeature()),
//	)
//
// Both features default to the global providers and propagator installed by
// InitTracer and InitMeter.
package observability
