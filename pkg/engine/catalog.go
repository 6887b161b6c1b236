package engine

import (
	"regexp"
	"strings"
)

var (
	interfaceLine = regexp.MustCompile(`(?i)^interface\s+\S+`)
	shutdownLine  = regexp.MustCompile(`(?i)^\s*shutdown\b`)
)

// builtin is the fixed catalog in evaluation order.
var builtin = []Rule{
	// Layer 2
	{
		ID: "L2-DHCP-SNOOPING", Category: CategoryLayer2, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\bip dhcp snooping\b`),
		Title:          "DHCP Snooping Disabled",
		RiskDesc:       "DHCP attacks possible",
		Recommendation: "Enable DHCP Snooping",
	},
	{
		ID: "L2-ARP-INSPECTION", Category: CategoryLayer2, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\bip arp inspection\b`),
		Title:          "Dynamic ARP Inspection Missing",
		RiskDesc:       "ARP spoofing possible",
		Recommendation: "Enable Dynamic ARP Inspection",
	},
	{
		ID: "L2-PORT-SECURITY", Category: CategoryLayer2, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\bswitchport port-security\b`),
		Title:          "Port Security Not Configured",
		RiskDesc:       "MAC flooding risk",
		Recommendation: "Enable Port Security",
	},
	{
		ID: "L2-UNUSED-INTERFACES", Category: CategoryLayer2, Polarity: Absent,
		Match:          allInterfacesShut,
		Title:          "Unused Interfaces Active (heuristic)",
		RiskDesc:       "Potential unused interfaces not administratively shutdown",
		Recommendation: "Review & administratively shutdown unused interfaces",
	},
	{
		ID: "L2-NATIVE-VLAN", Category: CategoryLayer2, Polarity: Present,
		Pattern:        regexp.MustCompile(`(?i)\bswitchport trunk native vlan\s+1\b`),
		Title:          "Default Native VLAN in Use",
		RiskDesc:       "VLAN hopping risk",
		Recommendation: "Change native VLAN from 1",
	},

	// Access Control
	{
		ID: "AC-TELNET", Category: CategoryAccessControl, Polarity: Present,
		Pattern:        regexp.MustCompile(`(?im)^\s*transport input .*telnet`),
		Title:          "Telnet Enabled",
		RiskDesc:       "Credentials exposed in cleartext",
		Recommendation: "Disable Telnet and use SSH only",
	},
	{
		ID: "AC-SNMP-DEFAULT", Category: CategoryAccessControl, Polarity: Present,
		Pattern:        regexp.MustCompile(`(?i)\bsnmp-server community\s+(public|private)\b`),
		Title:          "Default SNMP Community",
		RiskDesc:       "Unauthorized SNMP access risk",
		Recommendation: "Use SNMPv3 with strong credentials",
	},
	{
		ID: "AC-NO-ACL", Category: CategoryAccessControl, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\b(access-list|ip access-list|ip prefix-list|ipv6 access-list)\b`),
		Title:          "No ACLs Found",
		RiskDesc:       "Unrestricted traffic flows",
		Recommendation: "Implement ACLs where needed",
	},

	// AAA
	{
		ID: "AAA-NEW-MODEL", Category: CategoryAAA, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\baaa new-model\b`),
		Title:          "No AAA Configured",
		RiskDesc:       "No centralized authentication",
		Recommendation: "Enable AAA (TACACS+/RADIUS)",
	},
	{
		ID: "AAA-LOCAL-USERS", Category: CategoryAAA, Polarity: Present,
		Pattern:        regexp.MustCompile(`(?im)^\s*username\s+\S+\s+(?:password|privilege)\b`),
		Title:          "Local User Accounts with Passwords",
		RiskDesc:       "Local credential management; possible weak auth",
		Recommendation: "Use AAA and avoid plaintext local passwords",
	},

	// Logging & Monitoring
	{
		ID: "LOG-SYSLOG", Category: CategoryLogging, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\blogging\s+\S+`),
		Title:          "No Syslog Configured",
		RiskDesc:       "No centralized log collection",
		Recommendation: "Configure Syslog servers",
	},
	{
		ID: "LOG-NTP", Category: CategoryLogging, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\b(ntp server|clock set|ntp peer)\b`),
		Title:          "No NTP Configured",
		RiskDesc:       "Logs not time-synced",
		Recommendation: "Configure NTP servers",
	},
	{
		ID: "LOG-SNMPV3", Category: CategoryLogging, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)snmp-server group [^\n]* v3`),
		Title:          "SNMPv3 Not Configured",
		RiskDesc:       "Monitoring unencrypted",
		Recommendation: "Use SNMPv3 with authentication & privacy",
	},

	// Cryptographic & protocol risks
	{
		ID: "CR-FTP", Category: CategoryCrypto, Polarity: Present,
		Pattern:        regexp.MustCompile(`(?im)^\s*(service ftp|ftp server|ip ftp)\b`),
		Title:          "FTP Enabled",
		RiskDesc:       "Credentials exposed in cleartext",
		Recommendation: "Disable FTP; use SFTP/SCP/FTPS",
	},
	{
		ID: "CR-HTTP", Category: CategoryCrypto, Polarity: Present,
		Pattern:        regexp.MustCompile(`(?im)^\s*ip http server\b`),
		Title:          "HTTP Server Enabled",
		RiskDesc:       "Management traffic unencrypted",
		Recommendation: "Disable HTTP; enable HTTPS (ip http secure-server)",
	},
	{
		ID: "CR-SSH", Category: CategoryCrypto, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\bip ssh\b`),
		Title:          "SSH Not Configured",
		RiskDesc:       "Secure remote management not enforced",
		Recommendation: "Enable SSH v2 and restrict vty to SSH",
	},

	// Resilience & availability
	{
		ID: "RES-FHRP", Category: CategoryResilience, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\b(standby\b|vrrp\b|hsrp\b)`),
		Title:          "No First-Hop Redundancy (HSRP/VRRP)",
		RiskDesc:       "Single point of failure for gateway",
		Recommendation: "Implement HSRP/VRRP where required",
	},
	{
		ID: "RES-STORM-CONTROL", Category: CategoryResilience, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\bstorm-control\b`),
		Title:          "No Storm Control",
		RiskDesc:       "Broadcast/multicast flood risk",
		Recommendation: "Enable storm-control on access ports",
	},
	{
		ID: "RES-STP", Category: CategoryResilience, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\bspanning-tree\b`),
		Title:          "Spanning Tree Not Configured",
		RiskDesc:       "Switching loops possible",
		Recommendation: "Enable STP and configure root guard/portfast",
	},

	// Configuration management
	{
		ID: "CM-TYPE7", Category: CategoryConfigMgmt, Polarity: Present,
		Pattern:        regexp.MustCompile(`(?i)\bpassword 7\b`),
		Title:          "Weak Password Encryption (Type 7)",
		RiskDesc:       "Easily reversible encryption",
		Recommendation: "Avoid type 7; use enable secret / stronger hashes",
	},
	{
		ID: "CM-ARCHIVE", Category: CategoryConfigMgmt, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\barchive\b`),
		Title:          "No Config Archiving",
		RiskDesc:       "No config backup/versioning",
		Recommendation: "Enable config archive/backup/versioning",
	},
	{
		ID: "CM-PASSWORD-ENCRYPTION", Category: CategoryConfigMgmt, Polarity: Absent,
		Pattern:        regexp.MustCompile(`(?i)\bservice password-encryption\b`),
		Title:          "Passwords Not Encrypted",
		RiskDesc:       "Plaintext passwords in config",
		Recommendation: "Enable 'service password-encryption' and use secrets",
	},
}

// Catalog returns a copy of the built-in rules in evaluation order.
func Catalog() []Rule {
	out := make([]Rule, len(builtin))
	copy(out, builtin)
	return out
}

// RuleByID looks a rule up in rules, ignoring case.
func RuleByID(rules []Rule, id string) (Rule, bool) {
	for _, r := range rules {
		if strings.EqualFold(r.ID, id) {
			return r, true
		}
	}
	return Rule{}, false
}

// allInterfacesShut splits text into interface blocks and reports false as
// soon as one block has no shutdown line. Only the first unshut block is
// looked at, so a device is flagged once however many interfaces are live.
// Text without interface blocks counts as shut.
func allInterfacesShut(text string) bool {
	inBlock, shut := false, false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if interfaceLine.MatchString(line) {
			if inBlock && !shut {
				return false
			}
			inBlock, shut = true, false
			continue
		}
		if inBlock && !shut && shutdownLine.MatchString(line) {
			shut = true
		}
	}
	return !inBlock || shut
}
