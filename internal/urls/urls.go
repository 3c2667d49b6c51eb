package urls

// AVMInterfaces lists AVM's TR-064 service descriptions for the Fritz!Box,
// including the arguments and error codes of every action.
const AVMInterfaces = "https://avm.de/service/schnittstellen/"

// ProjectIssues is where unexpected device behaviour should be reported.
const ProjectIssues = "https://github.com/muurk/tr064-debug/issues"
