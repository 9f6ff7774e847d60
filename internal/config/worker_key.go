package config

type WorkerKeyStruct struct {
	// FaceIndexReloadChannel is the Redis PubSub channel used to tell other
	// server instances that the student table changed.
	FaceIndexReloadChannel string
}

var WorkerKey = &WorkerKeyStruct{
	FaceIndexReloadChannel: "faces:reload",
}
