package mocks

// Mock generation directives. Run `go generate ./internal/mocks/` to regenerate.

//go:generate go run go.uber.org/mock/mockgen -destination=mock_metrics.go -package=mocks github.com/jimmy-wims/course-log/internal/core MetricsStore
//go:generate go run go.uber.org/mock/mockgen -destination=mock_reader.go -package=mocks github.com/jimmy-wims/course-log/internal/core LogReader,Directory
