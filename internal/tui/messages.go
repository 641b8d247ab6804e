package tui

import (
	"github.com/matheuskafuri/newsvoice/internal/cache"
	"github.com/matheuskafuri/newsvoice/internal/pipeline"
	"github.com/matheuskafuri/newsvoice/internal/speech"
)

type analysisDoneMsg struct {
	result *pipeline.Result
}

type analysisErrMsg struct {
	err error
}

type recentLoadedMsg struct {
	runs []cache.Run
}

type audioSavedMsg struct {
	out *speech.Output
}

type errMsg struct {
	err error
}
