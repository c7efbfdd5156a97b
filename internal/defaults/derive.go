package defaults

// Derive fills every optional identifier with its synthesized value using
// the uniform first-non-empty rule: an explicit value always wins, an empty
// one is replaced by a name built from the naming prefix. Deriving an
// already-derived record changes nothing.
func (r *Record) Derive() {
	res := &r.Resource
	fill(&res.NamingPrefix, DefaultNamingPrefix)
	fill(&res.ArtifactRepoLocation, DefaultResourceLocation)
	fill(&res.StorageBucketLocation, DefaultResourceLocation)
	fill(&res.BaseImage, DefaultBaseImage)
	fill(&res.VPCConnector, DefaultVPCConnector)
	fill(&res.ArtifactRepoName, res.NamingPrefix+"-artifact-registry")
	fill(&res.PipelineRunnerServiceAccount, "vertex-pipelines@"+res.ProjectID+".iam.gserviceaccount.com")
	fill(&res.StorageBucketName, res.ProjectID+"-"+res.NamingPrefix+"-bucket")

	if r.Tooling.UseCI {
		fill(&res.BuildTriggerLocation, DefaultResourceLocation)
		fill(&res.BuildTriggerName, res.NamingPrefix+"-build-trigger")
		fill(&res.PubsubTopicName, res.NamingPrefix+"-queueing-svc")
		fill(&res.ScheduleLocation, DefaultResourceLocation)
		fill(&res.ScheduleName, res.NamingPrefix+"-schedule")
		fill(&res.SchedulePattern, DefaultSchedulePattern)
		fill(&res.SourceRepoBranch, DefaultSourceRepoBranch)
		fill(&res.SourceRepoName, res.NamingPrefix+"-repository")
		fill(&res.SubmissionServiceLocation, DefaultResourceLocation)
		fill(&res.SubmissionServiceName, res.NamingPrefix+"-job-submission-svc")
	}

	p := &r.Pipeline
	fill(&p.ComponentDirectory, "components")
	fill(&p.Region, res.StorageBucketLocation)
	fill(&p.StoragePath, "gs://"+res.StorageBucketName+"/pipeline_root")
	fill(&p.GSPipelineJobSpecPath, p.StoragePath+"/"+res.NamingPrefix+"/pipeline_job.json")
	fill(&p.ParameterValuesPath, ParameterValuesPath)
	fill(&p.PipelineJobSpecPath, PipelineJobSpecPath)
}

// Normalize clears every CI-only field when CI is off, keeping the
// persisted record free of settings that no stage would read.
func (r *Record) Normalize() {
	if r.Tooling.UseCI {
		return
	}
	res := &r.Resource
	res.BuildTriggerLocation = ""
	res.BuildTriggerName = ""
	res.PubsubTopicName = ""
	res.ScheduleLocation = ""
	res.ScheduleName = ""
	res.SchedulePattern = ""
	res.SourceRepoBranch = ""
	res.SourceRepoName = ""
	res.SubmissionServiceLocation = ""
	res.SubmissionServiceName = ""
	r.Tooling.Deployer = ""
	r.Tooling.SourceRepoType = ""
	r.Tooling.SubmissionServiceType = ""
}

func fill(field *string, derived string) {
	if *field == "" {
		*field = derived
	}
}
