package api

const ApiVersion_1_0 = "1.0"

const ServerVersion = "WorkbenchSrv: 1.0.0"

type GetVersionReq struct {
	ApiVersion string `json:"api_version,omitempty"`
}

func (r GetVersionReq) RequestMethod() (string, string) {
	return "GET", "/version"
}

type GetVersionRsp struct {
	ServerVersion string `json:"server_version"`
	ApiVersion    string `json:"api_version"`
}
