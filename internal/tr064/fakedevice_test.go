package tr064

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const fakeRealm = "F!Box SOAP-Auth"

const fakeDescription = `<?xml version="1.0"?>
<root xmlns="urn:dslforum-org:device-1-0">
<specVersion><major>1</major><minor>0</minor></specVersion>
<device>
<deviceType>urn:dslforum-org:device:InternetGatewayDevice:1</deviceType>
<friendlyName>FRITZ!Box 7590</friendlyName>
<manufacturer>AVM</manufacturer>
<modelName>FRITZ!Box 7590</modelName>
<UDN>uuid:739f2409-bccb-40e7-8e6c-3431C4A7E5B1</UDN>
<serviceList>
<service>
<serviceType>urn:dslforum-org:service:DeviceInfo:1</serviceType>
<serviceId>urn:DeviceInfo-com:serviceId:DeviceInfo1</serviceId>
<controlURL>/upnp/control/deviceinfo</controlURL>
<eventSubURL>/upnp/control/deviceinfo</eventSubURL>
<SCPDURL>/deviceinfoSCPD.xml</SCPDURL>
</service>
</serviceList>
<deviceList>
<device>
<deviceType>urn:dslforum-org:device:LANDevice:1</deviceType>
<friendlyName>FRITZ!Box 7590</friendlyName>
<serviceList>
<service>
<serviceType>urn:dslforum-org:service:WLANConfiguration:1</serviceType>
<serviceId>urn:WLANConfiguration-com:serviceId:WLANConfiguration1</serviceId>
<controlURL>/upnp/control/wlanconfig1</controlURL>
<eventSubURL>/upnp/control/wlanconfig1</eventSubURL>
<SCPDURL>/wlanconfigSCPD.xml</SCPDURL>
</service>
</serviceList>
</device>
</deviceList>
</device>
</root>`

const fakeDeviceInfoSCPD = `<?xml version="1.0"?>
<scpd xmlns="urn:dslforum-org:service-1-0">
<specVersion><major>1</major><minor>0</minor></specVersion>
<actionList>
<action>
<name>GetInfo</name>
<argumentList>
<argument><name>NewManufacturerName</name><direction>out</direction><relatedStateVariable>ManufacturerName</relatedStateVariable></argument>
<argument><name>NewModelName</name><direction>out</direction><relatedStateVariable>ModelName</relatedStateVariable></argument>
</argumentList>
</action>
<action>
<name>GetSecurityPort</name>
<argumentList>
<argument><name>NewSecurityPort</name><direction>out</direction><relatedStateVariable>X_AVM-DE_SecurityPort</relatedStateVariable></argument>
</argumentList>
</action>
<action>
<name>Reboot</name>
</action>
</actionList>
<serviceStateTable></serviceStateTable>
</scpd>`

const fakeWLANSCPD = `<?xml version="1.0"?>
<scpd xmlns="urn:dslforum-org:service-1-0">
<actionList>
<action>
<name>SetEnable</name>
<argumentList>
<argument><name>NewEnable</name><direction>in</direction><relatedStateVariable>Enable</relatedStateVariable></argument>
</argumentList>
</action>
<action>
<name>X_AVM-DE_SetWLANGlobalEnable</name>
<argumentList>
<argument><name>NewX_AVM-DE_WLANGlobalEnable</name><direction>in</direction><relatedStateVariable>X_AVM-DE_WLANGlobalEnable</relatedStateVariable></argument>
</argumentList>
</action>
</actionList>
</scpd>`

func soapResponse(serviceType, action string, args ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?>`)
	b.WriteString(`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/"><s:Body>`)
	fmt.Fprintf(&b, `<u:%sResponse xmlns:u="%s">`, action, serviceType)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, "<%s>%s</%s>", args[i], args[i+1], args[i])
	}
	fmt.Fprintf(&b, `</u:%sResponse>`, action)
	b.WriteString(`</s:Body></s:Envelope>`)
	return b.String()
}

func soapFault(code int, description string) string {
	return `<?xml version="1.0"?>` +
		`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/"><s:Body>` +
		`<s:Fault><faultcode>s:Client</faultcode><faultstring>UPnPError</faultstring>` +
		`<detail><UPnPError xmlns="urn:dslforum-org:control-1-0">` +
		fmt.Sprintf(`<errorCode>%d</errorCode><errorDescription>%s</errorDescription>`, code, description) +
		`</UPnPError></detail></s:Fault></s:Body></s:Envelope>`
}

// soapCall is one SOAP request received by the fake device
type soapCall struct {
	Path          string
	Action        string
	Body          string
	TLS           bool
	Authorization string
}

// fakeDevice serves a minimal Fritz!Box-like TR-064 tree
type fakeDevice struct {
	t *testing.T

	// username and password, when set, make every control request except
	// GetSecurityPort demand HTTP digest authentication
	username string
	password string

	mu           sync.Mutex
	calls        []soapCall
	challenges   int
	securityPort string
	status       map[string]int
	responses    map[string]string
}

func newFakeDevice(t *testing.T) *fakeDevice {
	return &fakeDevice{
		t:         t,
		status:    map[string]int{},
		responses: map[string]string{},
	}
}

func (f *fakeDevice) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case DescriptionPath:
		w.Header().Set("Content-Type", "text/xml")
		io.WriteString(w, fakeDescription)
		return
	case "/deviceinfoSCPD.xml":
		io.WriteString(w, fakeDeviceInfoSCPD)
		return
	case "/wlanconfigSCPD.xml":
		io.WriteString(w, fakeWLANSCPD)
		return
	}

	soapAction := strings.Trim(r.Header.Get("SOAPAction"), `"`)
	parts := strings.SplitN(soapAction, "#", 2)
	if r.Method != http.MethodPost || len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	serviceType, action := parts[0], parts[1]

	if f.username != "" && action != "GetSecurityPort" && !f.authorized(r) {
		f.mu.Lock()
		f.challenges++
		f.mu.Unlock()
		w.Header().Set("WWW-Authenticate",
			fmt.Sprintf(`Digest realm="%s", nonce="4F1E3B2A9C8D7E6F", qop="auth", algorithm=MD5`, fakeRealm))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, soapCall{
		Path:          r.URL.Path,
		Action:        action,
		Body:          string(body),
		TLS:           r.TLS != nil,
		Authorization: r.Header.Get("Authorization"),
	})
	status, hasStatus := f.status[action]
	resp, hasResp := f.responses[action]
	port := f.securityPort
	f.mu.Unlock()

	w.Header().Set("Content-Type", `text/xml; charset="utf-8"`)
	if hasStatus {
		w.WriteHeader(status)
		if hasResp {
			io.WriteString(w, resp)
		}
		return
	}
	if hasResp {
		io.WriteString(w, resp)
		return
	}

	switch action {
	case "GetInfo":
		io.WriteString(w, soapResponse(serviceType, action, "NewManufacturerName", "AVM", "NewModelName", "FRITZ!Box 7590"))
	case "GetSecurityPort":
		io.WriteString(w, soapResponse(serviceType, action, "NewSecurityPort", port))
	default:
		io.WriteString(w, soapResponse(serviceType, action))
	}
}

// authorized checks the digest response of r against the fake credentials
func (f *fakeDevice) authorized(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Digest ") {
		return false
	}
	p := digestParams(auth)
	if p["username"] != f.username {
		return false
	}
	ha1 := md5Hex(f.username + ":" + fakeRealm + ":" + f.password)
	ha2 := md5Hex(r.Method + ":" + p["uri"])
	want := md5Hex(strings.Join([]string{ha1, p["nonce"], p["nc"], p["cnonce"], p["qop"], ha2}, ":"))
	return p["response"] == want
}

// digestParams splits the key=value pairs of a Digest Authorization header
func digestParams(header string) map[string]string {
	params := map[string]string{}
	for _, part := range strings.Split(strings.TrimPrefix(header, "Digest "), ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) == 2 {
			params[kv[0]] = strings.Trim(kv[1], `"`)
		}
	}
	return params
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (f *fakeDevice) Challenges() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.challenges
}

func (f *fakeDevice) Calls() []soapCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]soapCall(nil), f.calls...)
}

// start serves the fake device over plain HTTP and returns a matching profile
func (f *fakeDevice) start() (*httptest.Server, ConnectionProfile) {
	f.t.Helper()
	server := httptest.NewServer(f)
	f.t.Cleanup(server.Close)
	return server, profileFor(f.t, server)
}

// startEncrypted serves the fake device over plain HTTP and HTTPS, with
// GetSecurityPort pointing at the HTTPS server, and returns an SSL profile
func (f *fakeDevice) startEncrypted() ConnectionProfile {
	f.t.Helper()
	plain := httptest.NewServer(f)
	f.t.Cleanup(plain.Close)
	secure := httptest.NewTLSServer(f)
	f.t.Cleanup(secure.Close)

	_, securePort := splitServerAddr(f.t, secure)
	f.mu.Lock()
	f.securityPort = strconv.Itoa(securePort)
	f.mu.Unlock()

	profile := profileFor(f.t, plain)
	profile.UseSSL = true
	return profile
}

func profileFor(t *testing.T, server *httptest.Server) ConnectionProfile {
	t.Helper()
	host, port := splitServerAddr(t, server)
	return ConnectionProfile{Host: host, Port: port, TimeoutMs: 2000}
}

func splitServerAddr(t *testing.T, server *httptest.Server) (string, int) {
	t.Helper()
	addr := strings.TrimPrefix(strings.TrimPrefix(server.URL, "http://"), "https://")
	i := strings.LastIndex(addr, ":")
	var port int
	if _, err := fmt.Sscanf(addr[i+1:], "%d", &port); err != nil {
		t.Fatalf("parse port of %s: %v", server.URL, err)
	}
	return addr[:i], port
}
