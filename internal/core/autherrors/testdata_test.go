package autherrors

// Transfer service error messages captured from GCS v5.4 collections.
// The CRLFs are escaped in the message body, as the transfer service sends them.
const (
	gridFTPNotFromAllowedDomain = `Command Failed: Error (login)
Endpoint: HA Collection (8e92e5ab-7f29-4c68-9c6f-6b4eb9bd8a0f)
Server: 203.0.113.7:443
Message: Login Failed
---
Details: 530-Login incorrect. : GlobusError: v=1 c=LOGIN_DENIED\r\n530-GridFTP-Message: None of your identities are from domains allowed by resource policies\r\n530-GridFTP-JSON-Result: {"DATA_TYPE": "result#1.0.0", "code": "permission_denied", "detail": {"DATA_TYPE": "not_from_allowed_domain#1.0.0", "allowed_domains": ["globus.org"]}, "has_next_page": false, "http_response_code": 403, "message": "None of your identities are from domains allowed by resource policies"}\r\n530 End.
`

	gridFTPInvalidCredential = `Command Failed: Error (login)
Endpoint: S3 Collection (1c1e4a4d-1a3e-4b8e-9c3f-2f1d3c4b5a6e)
Server: 203.0.113.8:443
Message: Login Failed
---
Details: 530-Login incorrect. : GlobusError: v=1 c=LOGIN_DENIED\r\n530-GridFTP-Message: Login failed: invalid credential\r\n530-GridFTP-JSON-Result: {"DATA_TYPE": "result#1.0.0", "code": "permission_denied", "detail": {"DATA_TYPE": "invalid_credential#1.0.0", "user_credential_id": "7b0c2e2a-4f49-4b8b-8c71-3f7a0c2b9d11"}, "has_next_page": false, "http_response_code": 403, "message": "Login failed: invalid credential"}\r\n530 End.
`

	gridFTPUnexpected = `Command Failed: Error (login)
Endpoint: Other Collection (5d3f0b8c-9a2e-4c1d-8b7f-6e5d4c3b2a19)
Server: 203.0.113.9:443
Message: Login Failed
---
Details: 530-Login incorrect. : GlobusError: v=1 c=INTERNAL_ERROR\r\n530-GridFTP-JSON-Result: {"DATA_TYPE": "result#1.0.0", "code": "internal_error", "detail": {"DATA_TYPE": "something_new#1.0.0"}, "has_next_page": false, "http_response_code": 500, "message": "Unexpected failure"}\r\n530 End.
`

	gridFTPStringDetail = `Details: 530-GridFTP-JSON-Result: {"DATA_TYPE": "result#1.0.0", "code": "internal_error", "detail": "no structured detail", "message": "oops"}\r\n530 End.`

	gridFTPEmptyResult = `Details: 530-GridFTP-JSON-Result: {}\r\n530 End.`

	gridFTPNullResult = `Details: 530-GridFTP-JSON-Result: null\r\n530 End.`

	gridFTPMalformed = `Details: 530-GridFTP-JSON-Result: {"DATA_TYPE": "result#1.0.0", "code": \r\n530 End.`
)
