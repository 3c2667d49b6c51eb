// Package tr064 provides the device session adapter for TR-064 routers.
//
// A session is opened in four phases: the device description
// (tr64desc.xml) is fetched, the SCPD of every service is loaded into a
// ServiceCatalog, the control URLs are optionally moved onto the device's
// HTTPS security port, and the profile's credentials are attached as HTTP
// digest authentication. Description and SCPD decoding as well as SOAP
// envelopes are handled by github.com/huin/goupnp.
//
// # Usage Example
//
//	client := tr064.NewClient()
//	session, err := client.Connect(ctx, tr064.ConnectionProfile{
//	    Host:     "192.168.178.1",
//	    Port:     tr064.DefaultPort,
//	    Username: "admin",
//	    Password: "secret",
//	    UseSSL:   true,
//	})
//	if err != nil {
//	    fmt.Println(tr064.GetShortErrorMessage(err))
//	    return
//	}
//
//	res, err := session.Invoke(ctx, "DeviceInfo1", "GetInfo", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Get("NewModelName"))
//
// # Error Handling
//
// All failures are returned as *DeviceError values carrying an ErrorType.
// Use the Is* predicates (IsAuthError, IsSOAPFault, IsNotFound, ...) to
// branch, and GetShortErrorMessage / GetTroubleshootingHint for display.
// Lookups of unknown services or actions match errors.Is(err, ErrNotFound).
package tr064
