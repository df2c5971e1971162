package project

import (
	"strings"

	"github.com/jakoblorz/go-buildkit/internal/directory"
)

// Directory names shared with task builders.
const (
	DirSrc         = "src"
	DirTest        = "test"
	DirUnit        = "unit"
	DirAPI         = "api"
	DirInfra       = "infra"
	DirWorking     = "working"
	DirDist        = "dist"
	DirDocs        = "docs"
	DirNodeModules = "node_modules"
	DirCoverage    = "coverage"
	DirGulpCache   = ".gulp"
	DirTSCache     = ".tscache"
	DirLogs        = "logs"
	DirCdkOut      = "cdk.out"
)

func baseShape() directory.Shape {
	return directory.Shape{
		directory.Dir(DirSrc),
		directory.Dir(DirTest,
			directory.Dir(DirUnit),
			directory.Dir(DirAPI),
		),
		directory.Dir(DirWorking,
			directory.Dir(DirSrc),
			directory.Dir(DirTest,
				directory.Dir(DirUnit),
				directory.Dir(DirAPI),
			),
			directory.Dir(DirNodeModules),
		),
		directory.Dir(DirDist),
		directory.Dir(DirDocs),
		directory.Dir(DirNodeModules),
		directory.Dir(DirCoverage),
		directory.Dir(DirGulpCache),
		directory.Dir(DirTSCache),
		directory.Dir(DirLogs),
	}
}

// layoutShape derives the canonical directory shape for a project.
func layoutShape(projectType ProjectType, exportedTypes []string) directory.Shape {
	shape := baseShape()

	switch projectType {
	case ProjectTypeAwsMicroservice:
		shape = shape.
			Insert(DirInfra).
			Insert(DirWorking, DirInfra).
			Insert(DirCdkOut)
	case ProjectTypeLib, ProjectTypeCLI, ProjectTypeAPI:
	}

	if len(exportedTypes) > 0 {
		shape = shape.Insert(exportedTypes...)
		shape = shape.Insert(append([]string{DirWorking}, exportedTypes...)...)
	}

	return shape
}

// splitExportedTypes turns "src/types/public" into its path segments.
func splitExportedTypes(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || segment == "." {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
