package sdk

// Version is reported in the User-Agent of every request.
const Version = "0.3.0"
