package config

type WorkerKeyStruct struct {
	PersistScoresQueue      string
	PersistTranscriptsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistScoresQueue:      "persist_dsa_scores_queue",
	PersistTranscriptsQueue: "persist_transcripts_queue",
}
