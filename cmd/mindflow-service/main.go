package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mindflow/mindflow/mindflowservice"
)

func main() {
	if err := mindflowservice.Run(); err != nil {
		log.Error().Err(err).Msg("mindflow-service exited with error")
		os.Exit(1)
	}
}
